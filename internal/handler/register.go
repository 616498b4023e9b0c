package handler

import (
	"context"

	"github.com/noah-isme/attendance-register/internal/dto"
	"github.com/noah-isme/attendance-register/internal/models"
	"github.com/noah-isme/attendance-register/internal/service"
)

type registerService interface {
	Today() string
	Students() []models.Student
	Message() *models.Message
	AddStudent(ctx context.Context, req dto.AddStudentRequest) (*models.Student, error)
	MarkAttendance(ctx context.Context, req dto.MarkAttendanceRequest) (*dto.MarkAttendanceResult, error)
	EditAttendance(ctx context.Context, id int64) (*dto.MarkAttendanceRequest, error)
	DeleteAttendance(ctx context.Context, id int64, confirmed bool) (bool, error)
	AttendanceRow(id int64) (*models.AttendanceRow, error)
	StudentOptions() []models.Option
	ClassOptions() []models.Option
	AttendanceTable(filter models.AttendanceFilter) models.AttendanceTable
	Stats() models.AttendanceStats
	Dashboard(filter models.AttendanceFilter) dto.Dashboard
}

type exportService interface {
	Export(ctx context.Context, filter models.AttendanceFilter, format string) (*service.ExportResult, error)
}
