package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-register/internal/dto"
	"github.com/noah-isme/attendance-register/internal/models"
	appErrors "github.com/noah-isme/attendance-register/pkg/errors"
)

func TestAttendanceHandlerListBindsFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRegisterSrv{table: models.AttendanceTable{Rows: []models.AttendanceRow{{ID: 1, StudentName: "Ada"}}}}
	handler := NewAttendanceHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance?class=A&date=2024-01-01&status=Late", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.AttendanceFilter{Class: "A", Date: "2024-01-01", Status: models.AttendanceStatusLate}, srv.lastFilter)
	assert.Equal(t, float64(1), decodeEnvelope(t, rec).Meta["total"])
}

func TestAttendanceHandlerMarkCreatedAndUpdated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRegisterSrv{markResult: &dto.MarkAttendanceResult{Record: models.AttendanceRecord{ID: 9, StudentName: "Ada"}, Created: true}}
	handler := NewAttendanceHandler(srv)
	body := `{"studentId":5,"date":"2024-01-01","status":"Present","remarks":"on time"}`

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Mark(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, dto.MarkAttendanceRequest{StudentID: 5, Date: "2024-01-01", Status: models.AttendanceStatusPresent, Remarks: "on time"}, srv.lastMark)

	srv.markResult.Created = false
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Mark(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var record models.AttendanceRecord
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &record))
	assert.Equal(t, int64(9), record.ID)
}

func TestAttendanceHandlerMarkUnknownStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(&fakeRegisterSrv{markErr: appErrors.Clone(appErrors.ErrNotFound, "student not found")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(`{"studentId":5,"date":"2024-01-01","status":"Present"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Mark(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttendanceHandlerEdit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRegisterSrv{editForm: &dto.MarkAttendanceRequest{StudentID: 5, Date: "2024-01-01", Status: models.AttendanceStatusLate}}
	handler := NewAttendanceHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/9/edit", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	handler.Edit(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var form dto.MarkAttendanceRequest
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &form))
	assert.Equal(t, models.AttendanceStatusLate, form.Status)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/abc/edit", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	handler.Edit(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandlerDeleteRequiresConfirmation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRegisterSrv{deleted: true}
	handler := NewAttendanceHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/attendance/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	handler.Delete(c)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, 0, srv.deleteCalls)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/attendance/9?confirm=true", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	handler.Delete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), srv.lastDeleteID)
	assert.True(t, srv.lastConfirmed)
	var result dto.DeleteAttendanceResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	assert.True(t, result.Deleted)
}
