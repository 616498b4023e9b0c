package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-register/internal/dto"
	"github.com/noah-isme/attendance-register/internal/models"
	"github.com/noah-isme/attendance-register/internal/service"
	appErrors "github.com/noah-isme/attendance-register/pkg/errors"
)

type fakeRegisterSrv struct {
	today    string
	students []models.Student
	message  *models.Message
	table    models.AttendanceTable
	stats    models.AttendanceStats
	board    dto.Dashboard
	row      *models.AttendanceRow

	addResult  *models.Student
	addErr     error
	markResult *dto.MarkAttendanceResult
	markErr    error
	editForm   *dto.MarkAttendanceRequest
	editErr    error
	deleted    bool
	deleteErr  error
	rowErr     error

	lastAdd       dto.AddStudentRequest
	lastMark      dto.MarkAttendanceRequest
	lastFilter    models.AttendanceFilter
	lastDeleteID  int64
	lastConfirmed bool
	deleteCalls   int
}

func (f *fakeRegisterSrv) Today() string              { return f.today }
func (f *fakeRegisterSrv) Students() []models.Student { return f.students }
func (f *fakeRegisterSrv) Message() *models.Message   { return f.message }

func (f *fakeRegisterSrv) AddStudent(_ context.Context, req dto.AddStudentRequest) (*models.Student, error) {
	f.lastAdd = req
	return f.addResult, f.addErr
}

func (f *fakeRegisterSrv) MarkAttendance(_ context.Context, req dto.MarkAttendanceRequest) (*dto.MarkAttendanceResult, error) {
	f.lastMark = req
	return f.markResult, f.markErr
}

func (f *fakeRegisterSrv) EditAttendance(context.Context, int64) (*dto.MarkAttendanceRequest, error) {
	return f.editForm, f.editErr
}

func (f *fakeRegisterSrv) DeleteAttendance(_ context.Context, id int64, confirmed bool) (bool, error) {
	f.deleteCalls++
	f.lastDeleteID = id
	f.lastConfirmed = confirmed
	return f.deleted, f.deleteErr
}

func (f *fakeRegisterSrv) AttendanceRow(int64) (*models.AttendanceRow, error) {
	return f.row, f.rowErr
}

func (f *fakeRegisterSrv) StudentOptions() []models.Option {
	return []models.Option{{Value: "", Label: "-- Select Student --"}}
}

func (f *fakeRegisterSrv) ClassOptions() []models.Option {
	return []models.Option{{Value: "", Label: "All Classes"}, {Value: "A", Label: "A"}}
}

func (f *fakeRegisterSrv) AttendanceTable(filter models.AttendanceFilter) models.AttendanceTable {
	f.lastFilter = filter
	table := f.table
	table.Filter = filter
	return table
}

func (f *fakeRegisterSrv) Stats() models.AttendanceStats { return f.stats }

func (f *fakeRegisterSrv) Dashboard(filter models.AttendanceFilter) dto.Dashboard {
	f.lastFilter = filter
	board := f.board
	board.Table.Filter = filter
	board.Message = f.message
	return board
}

type fakeExportSrv struct {
	result     *service.ExportResult
	err        error
	lastFormat string
	lastFilter models.AttendanceFilter
}

func (f *fakeExportSrv) Export(_ context.Context, filter models.AttendanceFilter, format string) (*service.ExportResult, error) {
	f.lastFilter = filter
	f.lastFormat = format
	return f.result, f.err
}

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestRegisterHandlerStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRegisterHandler(&fakeRegisterSrv{stats: models.AttendanceStats{
		Date: "2024-01-01", TotalStudents: 3, PresentToday: 2, AbsentToday: 1, RecordsToday: 3, AttendanceRate: 66.7, RateLabel: "66.7%",
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/stats", nil)

	handler.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var stats models.AttendanceStats
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &stats))
	assert.Equal(t, "66.7%", stats.RateLabel)
	assert.Equal(t, 3, stats.TotalStudents)
}

func TestRegisterHandlerClassOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRegisterHandler(&fakeRegisterSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/classes/options", nil)

	handler.ClassOptions(c)

	var options []models.Option
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &options))
	require.Len(t, options, 2)
	assert.Equal(t, "All Classes", options[0].Label)
}

func TestRegisterHandlerCurrentMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRegisterSrv{}
	handler := NewRegisterHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/messages/current", nil)
	handler.CurrentMessage(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, rec.Code)

	srv.message = &models.Message{Kind: models.MessageSuccess, Text: "Student Ada added successfully!", ExpiresAt: time.Now().Add(time.Second)}
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/messages/current", nil)
	handler.CurrentMessage(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var msg models.Message
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &msg))
	assert.Equal(t, "Student Ada added successfully!", msg.Text)
}
