package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-register/internal/dto"
	appErrors "github.com/noah-isme/attendance-register/pkg/errors"
	"github.com/noah-isme/attendance-register/pkg/response"
)

// AttendanceHandler exposes attendance record endpoints.
type AttendanceHandler struct {
	register registerService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(register registerService) *AttendanceHandler {
	return &AttendanceHandler{register: register}
}

// List godoc
// @Summary Filtered attendance table
// @Tags Attendance
// @Produce json
// @Param class query string false "Class"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param status query string false "Present, Absent or Late"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	table := h.register.AttendanceTable(filter)
	response.JSON(c, http.StatusOK, table, map[string]interface{}{"total": len(table.Rows)})
}

// Mark godoc
// @Summary Mark or update attendance
// @Description Creates the record for the student and date, or replaces the existing one.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.MarkAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.register.MarkAttendance(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{"message": h.register.Message()}
	if result.Created {
		response.Created(c, result.Record, meta)
		return
	}
	response.JSON(c, http.StatusOK, result.Record, meta)
}

// Edit godoc
// @Summary Load a record into the attendance form
// @Tags Attendance
// @Produce json
// @Param id path int true "Attendance record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/{id}/edit [get]
func (h *AttendanceHandler) Edit(c *gin.Context) {
	id, err := recordIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	form, err := h.register.EditAttendance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}

// Delete godoc
// @Summary Delete an attendance record
// @Description Requires confirm=true. Unknown ids are ignored.
// @Tags Attendance
// @Produce json
// @Param id path int true "Attendance record ID"
// @Param confirm query bool true "Confirm deletion"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	id, err := recordIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if !confirmed {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "deletion must be confirmed with confirm=true"))
		return
	}
	deleted, err := h.register.DeleteAttendance(c.Request.Context(), id, true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DeleteAttendanceResult{ID: id, Deleted: deleted})
}
