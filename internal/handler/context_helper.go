package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-register/internal/models"
	appErrors "github.com/noah-isme/attendance-register/pkg/errors"
)

func recordIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid attendance record id")
	}
	return id, nil
}

func filterFromQuery(c *gin.Context) (models.AttendanceFilter, error) {
	var filter models.AttendanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter")
	}
	filter.Class = strings.TrimSpace(filter.Class)
	filter.Date = strings.TrimSpace(filter.Date)
	filter.Status = models.AttendanceStatus(strings.TrimSpace(string(filter.Status)))
	return filter, nil
}
