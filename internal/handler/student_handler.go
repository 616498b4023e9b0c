package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-register/internal/dto"
	appErrors "github.com/noah-isme/attendance-register/pkg/errors"
	"github.com/noah-isme/attendance-register/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	register registerService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(register registerService) *StudentHandler {
	return &StudentHandler{register: register}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students := h.register.Students()
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}

// Create godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.AddStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.register.AddStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student, map[string]interface{}{"message": h.register.Message()})
}

// Options godoc
// @Summary Student selector options
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/options [get]
func (h *StudentHandler) Options(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.register.StudentOptions())
}
