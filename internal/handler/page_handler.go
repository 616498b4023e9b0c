package handler

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-register/internal/dto"
	"github.com/noah-isme/attendance-register/internal/models"
	"github.com/noah-isme/attendance-register/internal/web"
	appErrors "github.com/noah-isme/attendance-register/pkg/errors"
)

// returnToField carries the register filter through forms and action links.
const returnToField = "returnTo"

var filterKeys = []string{"class", "date", "status"}

// pageData is the view model of the register page.
type pageData struct {
	dto.Dashboard
	StudentForm dto.AddStudentRequest
	ReturnTo    string
	RegisterURL template.URL
}

type confirmDeleteData struct {
	RecordID int64
	Record   *models.AttendanceRow
	ReturnTo string
}

// PageHandler serves the server-rendered register pages. Every action
// either redirects back to the register or re-renders it with the
// submitted form so the operator can correct it.
type PageHandler struct {
	register registerService
}

// NewPageHandler constructs PageHandler.
func NewPageHandler(register registerService) *PageHandler {
	return &PageHandler{register: register}
}

// Index renders the register. The date filter defaults to today when the
// query does not carry one.
func (h *PageHandler) Index(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		filter = models.AttendanceFilter{}
	}
	if _, ok := c.GetQuery("date"); !ok {
		filter.Date = h.register.Today()
	}
	h.render(c, http.StatusOK, h.register.Dashboard(filter), dto.AddStudentRequest{})
}

// AddStudent handles the add-student form.
func (h *PageHandler) AddStudent(c *gin.Context) {
	var req dto.AddStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student form"))
		req = dto.AddStudentRequest{
			Name:       c.PostForm("name"),
			RollNumber: c.PostForm("rollNumber"),
			Class:      c.PostForm("class"),
			Email:      c.PostForm("email"),
		}
	}
	if _, err := h.register.AddStudent(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		h.render(c, appErrors.FromError(err).Status, h.returnDashboard(c), req)
		return
	}
	c.Redirect(http.StatusSeeOther, registerLocation(c))
}

// MarkAttendance handles the mark-attendance form, creating or updating
// the record for the selected student and date.
func (h *PageHandler) MarkAttendance(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBind(&req); err != nil {
		// An unparsable student id is treated as no selection.
		req.StudentID = 0
		req.Date = c.PostForm("date")
		req.Status = models.AttendanceStatus(c.PostForm("status"))
		req.Remarks = c.PostForm("remarks")
	}
	if _, err := h.register.MarkAttendance(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		board := h.returnDashboard(c)
		board.Form = req
		h.render(c, appErrors.FromError(err).Status, board, dto.AddStudentRequest{})
		return
	}
	c.Redirect(http.StatusSeeOther, registerLocation(c))
}

// EditAttendance renders the register with the mark form populated from
// the record.
func (h *PageHandler) EditAttendance(c *gin.Context) {
	id, err := recordIDParam(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, registerLocation(c))
		return
	}
	form, err := h.register.EditAttendance(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.Redirect(http.StatusSeeOther, registerLocation(c))
		return
	}
	board := h.returnDashboard(c)
	board.Form = *form
	board.Editing = true
	h.render(c, http.StatusOK, board, dto.AddStudentRequest{})
}

// ConfirmDelete asks the operator to confirm a deletion.
func (h *PageHandler) ConfirmDelete(c *gin.Context) {
	id, err := recordIDParam(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, registerLocation(c))
		return
	}
	row, err := h.register.AttendanceRow(id)
	if err != nil {
		_ = c.Error(err)
		c.Redirect(http.StatusSeeOther, registerLocation(c))
		return
	}
	c.HTML(http.StatusOK, web.ConfirmDeletePage, confirmDeleteData{RecordID: id, Record: row, ReturnTo: returnQuery(c).Encode()})
}

// DeleteAttendance deletes the record when the form carries confirm=yes;
// any other answer declines.
func (h *PageHandler) DeleteAttendance(c *gin.Context) {
	id, err := recordIDParam(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, registerLocation(c))
		return
	}
	confirmed := c.PostForm("confirm") == "yes"
	if _, err := h.register.DeleteAttendance(c.Request.Context(), id, confirmed); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, registerLocation(c))
}

// returnDashboard builds the dashboard for the filter the action was
// submitted from, defaulting to today like Index.
func (h *PageHandler) returnDashboard(c *gin.Context) dto.Dashboard {
	values := returnQuery(c)
	filter := models.AttendanceFilter{
		Class:  strings.TrimSpace(values.Get("class")),
		Date:   strings.TrimSpace(values.Get("date")),
		Status: models.AttendanceStatus(strings.TrimSpace(values.Get("status"))),
	}
	if _, ok := values["date"]; !ok {
		filter.Date = h.register.Today()
	}
	return h.register.Dashboard(filter)
}

func (h *PageHandler) render(c *gin.Context, status int, board dto.Dashboard, studentForm dto.AddStudentRequest) {
	c.Header("Cache-Control", "no-store")
	query := filterQuery(board.Table.Filter)
	c.HTML(status, web.IndexPage, pageData{
		Dashboard:   board,
		StudentForm: studentForm,
		ReturnTo:    query,
		RegisterURL: template.URL("/?" + query), //nolint:gosec
	})
}

// returnQuery reads the filter a form or action link was issued from. Keys
// other than the filter's are dropped.
func returnQuery(c *gin.Context) url.Values {
	raw, ok := c.GetPostForm(returnToField)
	if !ok {
		raw = c.Query(returnToField)
	}
	parsed, err := url.ParseQuery(raw)
	if err != nil {
		return url.Values{}
	}
	values := url.Values{}
	for _, key := range filterKeys {
		if v, ok := parsed[key]; ok && len(v) > 0 {
			values.Set(key, v[0])
		}
	}
	return values
}

// registerLocation is the register URL an action redirects back to.
func registerLocation(c *gin.Context) string {
	values := returnQuery(c)
	if len(values) == 0 {
		return "/"
	}
	return "/?" + values.Encode()
}

func filterQuery(filter models.AttendanceFilter) string {
	return url.Values{
		"class":  {filter.Class},
		"date":   {filter.Date},
		"status": {string(filter.Status)},
	}.Encode()
}
