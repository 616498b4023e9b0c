package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-register/internal/models"
	"github.com/noah-isme/attendance-register/internal/repository"
	"github.com/noah-isme/attendance-register/internal/service"
	"github.com/noah-isme/attendance-register/internal/web"
	"github.com/noah-isme/attendance-register/pkg/kvstore"
)

type routerFixture struct {
	engine *gin.Engine
	repo   *repository.RegisterRepository
}

func newRouterFixture(t *testing.T, ready ReadinessCheck) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	metrics := service.NewMetricsService()
	kv := kvstore.Instrument(kvstore.NewMemoryStore(), metrics)
	repo := repository.NewRegisterRepository(kv, repository.NewIDGenerator(clock), zap.NewNop())
	repo.LoadAll(context.Background())

	register := service.NewRegisterService(repo, service.NewMessageBoard(4*time.Second, clock), metrics, validator.New(), zap.NewNop(), service.RegisterConfig{Location: time.UTC, Now: clock})
	templates, err := web.Templates()
	require.NoError(t, err)

	engine := NewRouter(RouterConfig{
		Env:       "test",
		APIPrefix: "/api/v1",
		Metrics:   metrics,
		Templates: templates,
		Register:  register,
		Exports:   service.NewExportService(register, nil, zap.NewNop()),
		Ready:     ready,
	})
	return &routerFixture{engine: engine, repo: repo}
}

func (f *routerFixture) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) postForm(target string, values url.Values) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, "application/x-www-form-urlencoded", values.Encode())
}

func (f *routerFixture) postJSON(target, body string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, "application/json", body)
}

func TestRouterPageFlow(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.postForm("/students", url.Values{"name": {"Ada"}, "rollNumber": {"R1"}, "class": {"A"}, "email": {"a@x.com"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, "Student Ada added successfully!")
	assert.Contains(t, page, "R1 - Ada (A)")
	assert.Contains(t, page, "No attendance records found for the selected filters.")
	assert.Contains(t, page, `value="2024-01-01"`)

	studentID := f.repo.Students()[0].ID
	rec = f.postForm("/attendance", url.Values{"studentId": {strconv.FormatInt(studentID, 10)}, "date": {"2024-01-01"}, "status": {"Present"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = f.do(http.MethodGet, "/", "", "")
	page = rec.Body.String()
	assert.Contains(t, page, "Attendance marked for Ada")
	assert.Contains(t, page, `<span class="status present">Present</span>`)
	assert.Contains(t, page, "100.0%")

	recordID := f.repo.Records()[0].ID
	rec = f.do(http.MethodGet, "/attendance/"+strconv.FormatInt(recordID, 10)+"/edit", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Update Attendance")

	rec = f.do(http.MethodGet, "/attendance/"+strconv.FormatInt(recordID, 10)+"/delete", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Are you sure you want to delete this attendance record?")

	rec = f.postForm("/attendance/"+strconv.FormatInt(recordID, 10)+"/delete", url.Values{"confirm": {"no"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, f.repo.Records(), 1)

	rec = f.postForm("/attendance/"+strconv.FormatInt(recordID, 10)+"/delete", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, f.repo.Records())

	rec = f.do(http.MethodGet, "/", "", "")
	assert.Contains(t, rec.Body.String(), "Attendance record deleted successfully")
}

func TestRouterPageRerendersRejectedForm(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.postForm("/students", url.Values{"name": {"Ada"}, "rollNumber": {"R1"}, "class": {"A"}, "email": {"a@x.com"}})

	rec := f.postForm("/students", url.Values{"name": {"Grace"}, "rollNumber": {"R1"}, "class": {"B"}, "email": {"g@x.com"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, "Student with this roll number already exists!")
	assert.Contains(t, page, `value="Grace"`)
	assert.Len(t, f.repo.Students(), 1)

	rec = f.postForm("/attendance", url.Values{"studentId": {"nope"}, "date": {"2024-01-01"}, "status": {"Present"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.repo.Records())
}

func TestRouterPageKeepsFilterAcrossActions(t *testing.T) {
	f := newRouterFixture(t, nil)
	returnTo := url.Values{"class": {"A"}, "date": {""}, "status": {"Present"}}.Encode()

	rec := f.do(http.MethodGet, "/?class=A&date=&status=Present", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="returnTo" value="class=A&amp;date=&amp;status=Present"`)

	rec = f.postForm("/students", url.Values{"name": {"Ada"}, "rollNumber": {"R1"}, "class": {"A"}, "email": {"a@x.com"}, "returnTo": {returnTo}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?class=A&date=&status=Present", rec.Header().Get("Location"))

	studentID := strconv.FormatInt(f.repo.Students()[0].ID, 10)
	rec = f.postForm("/attendance", url.Values{"studentId": {studentID}, "date": {"2024-01-01"}, "status": {"Present"}, "returnTo": {returnTo}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?class=A&date=&status=Present", rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, rec.Header().Get("Location"), "", "")
	page := rec.Body.String()
	recordID := strconv.FormatInt(f.repo.Records()[0].ID, 10)
	assert.Contains(t, page, "/attendance/"+recordID+"/delete?returnTo=class%3dA%26date%3d%26status%3dPresent")

	rec = f.do(http.MethodGet, "/attendance/"+recordID+"/delete?returnTo="+url.QueryEscape(returnTo), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="returnTo" value="class=A&amp;date=&amp;status=Present"`)

	rec = f.postForm("/attendance/"+recordID+"/delete", url.Values{"confirm": {"no"}, "returnTo": {returnTo}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?class=A&date=&status=Present", rec.Header().Get("Location"))

	rec = f.postForm("/attendance", url.Values{"studentId": {"nope"}, "date": {"2024-01-01"}, "status": {"Present"}, "returnTo": {"class=B&date=&other=x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="returnTo" value="class=B&amp;date=&amp;status="`)
}

func TestRouterPageAddStudentRecoversUnparsableForm(t *testing.T) {
	f := newRouterFixture(t, nil)

	body := "name=Ada&rollNumber=R1&class=A&email=a%40x.com&broken=%zz"
	rec := f.do(http.MethodPost, "/students", "application/x-www-form-urlencoded", body)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, f.repo.Students(), 1)
	assert.Equal(t, "R1", f.repo.Students()[0].RollNumber)

	rec = f.do(http.MethodPost, "/students", "application/x-www-form-urlencoded", "name=Grace&broken=%zz")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Grace"`)
	assert.Len(t, f.repo.Students(), 1)
}

func TestRouterAPIFlow(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.postJSON("/api/v1/students", `{"name":"Ada","rollNumber":"R1","class":"A","email":"a@x.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var student models.Student
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &student))

	rec = f.postJSON("/api/v1/students", `{"name":"Ada","rollNumber":"R1","class":"A","email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := `{"studentId":` + strconv.FormatInt(student.ID, 10) + `,"date":"2024-01-01","status":"Present"}`
	rec = f.postJSON("/api/v1/attendance", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var record models.AttendanceRecord
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &record))

	rec = f.postJSON("/api/v1/attendance", strings.Replace(body, "Present", "Late", 1))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.postJSON("/api/v1/attendance", `{"studentId":42,"date":"2024-01-01","status":"Present"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/attendance?status=Late", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var table models.AttendanceTable
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &table))
	require.Len(t, table.Rows, 1)
	assert.Equal(t, record.ID, table.Rows[0].ID)

	rec = f.do(http.MethodGet, "/api/v1/stats", "", "")
	var stats models.AttendanceStats
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &stats))
	assert.Equal(t, 1, stats.PresentToday)
	assert.Equal(t, "100.0%", stats.RateLabel)

	target := "/api/v1/attendance/" + strconv.FormatInt(record.ID, 10)
	rec = f.do(http.MethodDelete, target, "", "")
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Len(t, f.repo.Records(), 1)

	rec = f.do(http.MethodDelete, target+"?confirm=true", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.repo.Records())

	rec = f.do(http.MethodGet, "/api/v1/messages/current", "", "")
	var msg models.Message
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &msg))
	assert.Equal(t, "Attendance record deleted successfully", msg.Text)

	rec = f.do(http.MethodGet, "/api/v1/exports/attendance?format=csv", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Roll Number,Name,Class,Date,Status,Remarks\n", rec.Body.String())
}

func TestRouterOperationalEndpoints(t *testing.T) {
	f := newRouterFixture(t, func(context.Context) error { return errors.New("backend down") })

	rec := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = f.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f.postJSON("/api/v1/students", `{"name":"Ada","rollNumber":"R1","class":"A","email":"a@x.com"}`)
	rec = f.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "register_students 1")
	assert.Contains(t, body, `register_mutations_total{operation="add_student",outcome="created"} 1`)
	assert.Contains(t, body, "kv_operation_duration_seconds")
}
