package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-register/internal/models"
	"github.com/noah-isme/attendance-register/pkg/kvstore"
)

// Storage keys of the two persisted collections.
const (
	StudentsKey          = "students"
	AttendanceRecordsKey = "attendanceRecords"
)

var (
	// ErrDuplicateRollNumber is returned when a roll number is already registered.
	ErrDuplicateRollNumber = errors.New("student with this roll number already exists")
	// ErrStudentNotFound is returned when a student id does not resolve.
	ErrStudentNotFound = errors.New("student not found")
	// ErrRecordNotFound is returned when an attendance record id does not resolve.
	ErrRecordNotFound = errors.New("attendance record not found")
)

// RegisterRepository owns the students and attendance records collections
// and mirrors each of them to the key-value store after every mutation.
// A mutation whose snapshot cannot be written is not applied in memory.
type RegisterRepository struct {
	kv     kvstore.Store
	ids    *IDGenerator
	logger *zap.Logger

	mu       sync.RWMutex
	students []models.Student
	records  []models.AttendanceRecord
}

// NewRegisterRepository constructs an empty repository; call LoadAll to
// hydrate it from storage.
func NewRegisterRepository(kv kvstore.Store, ids *IDGenerator, logger *zap.Logger) *RegisterRepository {
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegisterRepository{
		kv:       kv,
		ids:      ids,
		logger:   logger,
		students: []models.Student{},
		records:  []models.AttendanceRecord{},
	}
}

// LoadAll replaces both collections with their persisted snapshots. A
// missing, unreadable or corrupt snapshot loads as an empty collection.
func (r *RegisterRepository) LoadAll(ctx context.Context) {
	students := []models.Student{}
	r.load(ctx, StudentsKey, &students)
	records := []models.AttendanceRecord{}
	r.load(ctx, AttendanceRecordsKey, &records)
	if students == nil {
		students = []models.Student{}
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	for _, s := range students {
		r.ids.Observe(s.ID)
	}
	for _, rec := range records {
		r.ids.Observe(rec.ID)
	}

	r.mu.Lock()
	r.students = students
	r.records = records
	r.mu.Unlock()

	r.logger.Info("register loaded", zap.Int("students", len(students)), zap.Int("attendance_records", len(records)))
}

func (r *RegisterRepository) load(ctx context.Context, key string, dest interface{}) {
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			r.logger.Warn("read snapshot failed, starting empty", zap.String("key", key), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Warn("corrupt snapshot, starting empty", zap.String("key", key), zap.Error(err))
		switch d := dest.(type) {
		case *[]models.Student:
			*d = []models.Student{}
		case *[]models.AttendanceRecord:
			*d = []models.AttendanceRecord{}
		}
	}
}

// Students returns a copy of all students in insertion order.
func (r *RegisterRepository) Students() []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Student, len(r.students))
	copy(out, r.students)
	return out
}

// Records returns a copy of all attendance records in stored order.
func (r *RegisterRepository) Records() []models.AttendanceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.AttendanceRecord, len(r.records))
	copy(out, r.records)
	return out
}

// FindStudent returns the student with the given id.
func (r *RegisterRepository) FindStudent(id int64) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, ErrStudentNotFound
}

// FindRecord returns the attendance record with the given id.
func (r *RegisterRepository) FindRecord(id int64) (*models.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.ID == id {
			found := rec
			return &found, nil
		}
	}
	return nil, ErrRecordNotFound
}

// AddStudent appends the candidate with a fresh id unless its roll number
// is already taken.
func (r *RegisterRepository) AddStudent(ctx context.Context, candidate models.Student) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.students {
		if s.RollNumber == candidate.RollNumber {
			return nil, ErrDuplicateRollNumber
		}
	}

	candidate.ID = r.ids.Next()
	next := make([]models.Student, len(r.students), len(r.students)+1)
	copy(next, r.students)
	next = append(next, candidate)

	if err := r.persist(ctx, StudentsKey, next); err != nil {
		return nil, err
	}
	r.students = next
	return &candidate, nil
}

// UpsertAttendance records status for the student on date. An existing
// record for the same student and date is replaced in place and keeps its
// id. The returned flag is true when an existing record was updated.
func (r *RegisterRepository) UpsertAttendance(ctx context.Context, studentID int64, date string, status models.AttendanceStatus, remarks string) (*models.AttendanceRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var student *models.Student
	for i := range r.students {
		if r.students[i].ID == studentID {
			student = &r.students[i]
			break
		}
	}
	if student == nil {
		return nil, false, ErrStudentNotFound
	}

	existing := -1
	for i, rec := range r.records {
		if rec.StudentID == studentID && rec.Date == date {
			existing = i
			break
		}
	}

	record := models.AttendanceRecord{
		StudentID:   studentID,
		StudentName: student.Name,
		RollNumber:  student.RollNumber,
		Class:       student.Class,
		Date:        date,
		Status:      status,
		Remarks:     remarks,
	}

	next := make([]models.AttendanceRecord, len(r.records), len(r.records)+1)
	copy(next, r.records)
	if existing >= 0 {
		record.ID = r.records[existing].ID
		next[existing] = record
	} else {
		record.ID = r.ids.Next()
		next = append(next, record)
	}

	if err := r.persist(ctx, AttendanceRecordsKey, next); err != nil {
		return nil, false, err
	}
	r.records = next
	return &record, existing >= 0, nil
}

// DeleteAttendance removes the record with the given id. Unknown ids are a
// silent no-op and do not touch storage.
func (r *RegisterRepository) DeleteAttendance(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.AttendanceRecord, 0, len(r.records))
	for _, rec := range r.records {
		if rec.ID != id {
			next = append(next, rec)
		}
	}
	if len(next) == len(r.records) {
		return false, nil
	}

	if err := r.persist(ctx, AttendanceRecordsKey, next); err != nil {
		return false, err
	}
	r.records = next
	return true, nil
}

func (r *RegisterRepository) persist(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}
