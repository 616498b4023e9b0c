package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-register/internal/dto"
	"github.com/noah-isme/attendance-register/internal/models"
	"github.com/noah-isme/attendance-register/internal/repository"
	appErrors "github.com/noah-isme/attendance-register/pkg/errors"
)

// Messages shown to the operator.
const (
	msgDuplicateRollNumber = "Student with this roll number already exists!"
	msgRecordDeleted       = "Attendance record deleted successfully"
	msgNoRecords           = "No attendance records found for the selected filters."

	studentPlaceholder = "-- Select Student --"
	classPlaceholder   = "All Classes"

	displayDateLayout = "Jan 2, 2006"
)

type registerRepository interface {
	Students() []models.Student
	Records() []models.AttendanceRecord
	FindStudent(id int64) (*models.Student, error)
	FindRecord(id int64) (*models.AttendanceRecord, error)
	AddStudent(ctx context.Context, candidate models.Student) (*models.Student, error)
	UpsertAttendance(ctx context.Context, studentID int64, date string, status models.AttendanceStatus, remarks string) (*models.AttendanceRecord, bool, error)
	DeleteAttendance(ctx context.Context, id int64) (bool, error)
}

// RegisterConfig tunes the register service.
type RegisterConfig struct {
	Location *time.Location
	Now      func() time.Time
}

// RegisterService translates operator actions into repository calls and
// computes the read-only projections shown by the register page.
type RegisterService struct {
	repo      registerRepository
	messages  *MessageBoard
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewRegisterService constructs the register service.
func NewRegisterService(repo registerRepository, messages *MessageBoard, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg RegisterConfig) *RegisterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if messages == nil {
		messages = NewMessageBoard(0, cfg.Now)
	}
	svc := &RegisterService{
		repo:      repo,
		messages:  messages,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		loc:       cfg.Location,
		now:       cfg.Now,
	}
	svc.publishSizes()
	return svc
}

// Today returns the current calendar date in the configured time zone.
func (s *RegisterService) Today() string {
	return s.now().In(s.loc).Format(models.AttendanceDateLayout)
}

// Students lists every registered student in insertion order.
func (s *RegisterService) Students() []models.Student {
	return s.repo.Students()
}

// Message returns the live transient notice, if any.
func (s *RegisterService) Message() *models.Message {
	return s.messages.Current()
}

// AddStudent registers a new student from the add-student form.
func (s *RegisterService) AddStudent(ctx context.Context, req dto.AddStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.RollNumber = strings.TrimSpace(req.RollNumber)
	req.Class = strings.TrimSpace(req.Class)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordMutation("add_student", "invalid")
		return nil, s.fail(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload"))
	}

	student, err := s.repo.AddStudent(ctx, models.Student{
		Name:       req.Name,
		RollNumber: req.RollNumber,
		Class:      req.Class,
		Email:      req.Email,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRollNumber) {
			s.metrics.RecordMutation("add_student", "duplicate")
			return nil, s.fail(appErrors.Clone(appErrors.ErrValidation, msgDuplicateRollNumber))
		}
		s.metrics.RecordMutation("add_student", "error")
		s.logger.Error("add student failed", zap.String("roll_number", req.RollNumber), zap.Error(err))
		return nil, s.fail(appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student"))
	}

	s.metrics.RecordMutation("add_student", "created")
	s.publishSizes()
	s.logger.Info("student added", zap.Int64("student_id", student.ID), zap.String("roll_number", student.RollNumber))
	s.messages.Post(models.MessageSuccess, fmt.Sprintf("Student %s added successfully!", student.Name))
	return student, nil
}

// MarkAttendance creates or updates the record for the student and date.
func (s *RegisterService) MarkAttendance(ctx context.Context, req dto.MarkAttendanceRequest) (*dto.MarkAttendanceResult, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.Remarks = strings.TrimSpace(req.Remarks)

	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordMutation("mark_attendance", "invalid")
		return nil, s.fail(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload"))
	}

	record, updated, err := s.repo.UpsertAttendance(ctx, req.StudentID, req.Date, req.Status, req.Remarks)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			s.metrics.RecordMutation("mark_attendance", "unknown_student")
			return nil, s.fail(appErrors.Clone(appErrors.ErrNotFound, "student not found"))
		}
		s.metrics.RecordMutation("mark_attendance", "error")
		s.logger.Error("mark attendance failed", zap.Int64("student_id", req.StudentID), zap.String("date", req.Date), zap.Error(err))
		return nil, s.fail(appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance"))
	}

	s.publishSizes()
	if updated {
		s.metrics.RecordMutation("mark_attendance", "updated")
		s.messages.Post(models.MessageSuccess, "Attendance updated for "+record.StudentName)
	} else {
		s.metrics.RecordMutation("mark_attendance", "created")
		s.messages.Post(models.MessageSuccess, "Attendance marked for "+record.StudentName)
	}
	s.logger.Info("attendance marked",
		zap.Int64("record_id", record.ID),
		zap.Int64("student_id", record.StudentID),
		zap.String("date", record.Date),
		zap.String("status", string(record.Status)),
		zap.Bool("updated", updated),
	)
	return &dto.MarkAttendanceResult{Record: *record, Created: !updated}, nil
}

// EditAttendance returns the mark-attendance form populated from an
// existing record. Resubmitting it updates that record.
func (s *RegisterService) EditAttendance(_ context.Context, id int64) (*dto.MarkAttendanceRequest, error) {
	record, err := s.repo.FindRecord(id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	return &dto.MarkAttendanceRequest{
		StudentID: record.StudentID,
		Date:      record.Date,
		Status:    record.Status,
		Remarks:   record.Remarks,
	}, nil
}

// AttendanceRow returns the display row for a single record.
func (s *RegisterService) AttendanceRow(id int64) (*models.AttendanceRow, error) {
	record, err := s.repo.FindRecord(id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	row := toAttendanceRow(*record)
	return &row, nil
}

// DeleteAttendance removes the record once the operator has confirmed.
// A declined confirmation or an unknown id leaves everything untouched.
func (s *RegisterService) DeleteAttendance(ctx context.Context, id int64, confirmed bool) (bool, error) {
	if !confirmed {
		s.metrics.RecordMutation("delete_attendance", "declined")
		return false, nil
	}
	deleted, err := s.repo.DeleteAttendance(ctx, id)
	if err != nil {
		s.metrics.RecordMutation("delete_attendance", "error")
		s.logger.Error("delete attendance failed", zap.Int64("record_id", id), zap.Error(err))
		return false, s.fail(appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance record"))
	}
	if !deleted {
		s.metrics.RecordMutation("delete_attendance", "missing")
		return false, nil
	}
	s.metrics.RecordMutation("delete_attendance", "deleted")
	s.publishSizes()
	s.logger.Info("attendance deleted", zap.Int64("record_id", id))
	s.messages.Post(models.MessageSuccess, msgRecordDeleted)
	return true, nil
}

// DefaultAttendanceForm is the blank mark-attendance form, dated today.
func (s *RegisterService) DefaultAttendanceForm() dto.MarkAttendanceRequest {
	return dto.MarkAttendanceRequest{Date: s.Today()}
}

// StudentOptions builds the student selector, placeholder first.
func (s *RegisterService) StudentOptions() []models.Option {
	students := s.repo.Students()
	options := make([]models.Option, 0, len(students)+1)
	options = append(options, models.Option{Value: "", Label: studentPlaceholder})
	for _, student := range students {
		options = append(options, models.Option{
			Value: strconv.FormatInt(student.ID, 10),
			Label: student.SelectorLabel(),
		})
	}
	return options
}

// ClassOptions builds the class filter from the distinct student classes
// in order of first appearance, placeholder first.
func (s *RegisterService) ClassOptions() []models.Option {
	students := s.repo.Students()
	options := []models.Option{{Value: "", Label: classPlaceholder}}
	seen := make(map[string]struct{}, len(students))
	for _, student := range students {
		if _, ok := seen[student.Class]; ok {
			continue
		}
		seen[student.Class] = struct{}{}
		options = append(options, models.Option{Value: student.Class, Label: student.Class})
	}
	return options
}

// StatusOptions lists the selectable attendance statuses.
func (s *RegisterService) StatusOptions() []models.Option {
	options := make([]models.Option, 0, len(models.AttendanceStatuses))
	for _, status := range models.AttendanceStatuses {
		options = append(options, models.Option{Value: string(status), Label: string(status)})
	}
	return options
}

// AttendanceTable filters the records and renders them in stored order.
func (s *RegisterService) AttendanceTable(filter models.AttendanceFilter) models.AttendanceTable {
	records := s.repo.Records()
	rows := make([]models.AttendanceRow, 0, len(records))
	for _, record := range records {
		if !filter.Matches(record) {
			continue
		}
		rows = append(rows, toAttendanceRow(record))
	}
	table := models.AttendanceTable{Filter: filter, Rows: rows}
	if len(rows) == 0 {
		table.Empty = true
		table.EmptyMessage = msgNoRecords
	}
	return table
}

// Stats computes the counters for today's records.
func (s *RegisterService) Stats() models.AttendanceStats {
	today := s.Today()
	stats := models.AttendanceStats{
		Date:          today,
		TotalStudents: len(s.repo.Students()),
	}
	for _, record := range s.repo.Records() {
		if record.Date != today {
			continue
		}
		stats.RecordsToday++
		if record.Status.CountsAsPresent() {
			stats.PresentToday++
		} else if record.Status == models.AttendanceStatusAbsent {
			stats.AbsentToday++
		}
	}
	stats.AttendanceRate, stats.RateLabel = attendanceRate(stats.PresentToday, stats.RecordsToday)
	return stats
}

// Dashboard assembles every projection the register page needs.
func (s *RegisterService) Dashboard(filter models.AttendanceFilter) dto.Dashboard {
	return dto.Dashboard{
		StudentOptions: s.StudentOptions(),
		ClassOptions:   s.ClassOptions(),
		StatusOptions:  s.StatusOptions(),
		Table:          s.AttendanceTable(filter),
		Stats:          s.Stats(),
		Message:        s.Message(),
		Form:           s.DefaultAttendanceForm(),
	}
}

func (s *RegisterService) fail(err *appErrors.Error) *appErrors.Error {
	s.messages.Post(models.MessageError, err.Message)
	return err
}

func (s *RegisterService) publishSizes() {
	s.metrics.SetCollectionSizes(len(s.repo.Students()), len(s.repo.Records()))
}

func attendanceRate(present, total int) (float64, string) {
	if total == 0 {
		return 0, "0%"
	}
	rate := math.Round(float64(present)/float64(total)*1000) / 10
	return rate, strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}

func toAttendanceRow(record models.AttendanceRecord) models.AttendanceRow {
	remarks := record.Remarks
	if remarks == "" {
		remarks = "-"
	}
	return models.AttendanceRow{
		ID:          record.ID,
		StudentID:   record.StudentID,
		RollNumber:  record.RollNumber,
		StudentName: record.StudentName,
		Class:       record.Class,
		Date:        record.Date,
		DateLabel:   formatDisplayDate(record.Date),
		Status:      record.Status,
		StatusClass: record.Status.CSSClass(),
		Remarks:     remarks,
	}
}

func formatDisplayDate(raw string) string {
	parsed, err := time.Parse(models.AttendanceDateLayout, raw)
	if err != nil {
		return raw
	}
	return parsed.Format(displayDateLayout)
}
