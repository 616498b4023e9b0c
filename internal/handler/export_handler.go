package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-register/pkg/response"
)

// ExportHandler streams attendance exports.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Attendance godoc
// @Summary Export the filtered attendance table
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param class query string false "Class"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param status query string false "Present, Absent or Late"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.Export(c.Request.Context(), filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, result.Filename, result.ContentType, result.Payload)
}
