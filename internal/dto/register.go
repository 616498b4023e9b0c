package dto

import "github.com/noah-isme/attendance-register/internal/models"

// AddStudentRequest is the add-student form payload.
type AddStudentRequest struct {
	Name       string `json:"name" form:"name" validate:"required"`
	RollNumber string `json:"rollNumber" form:"rollNumber" validate:"required"`
	Class      string `json:"class" form:"class" validate:"required"`
	Email      string `json:"email" form:"email" validate:"required,email"`
}

// MarkAttendanceRequest is the mark-attendance form payload. It is also
// the shape returned when an existing record is opened for editing.
type MarkAttendanceRequest struct {
	StudentID int64                   `json:"studentId" form:"studentId" validate:"required,gt=0"`
	Date      string                  `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Status    models.AttendanceStatus `json:"status" form:"status" validate:"required,oneof=Present Absent Late"`
	Remarks   string                  `json:"remarks" form:"remarks"`
}

// MarkAttendanceResult reports the stored record and whether it was new.
type MarkAttendanceResult struct {
	Record  models.AttendanceRecord `json:"record"`
	Created bool                    `json:"created"`
}

// Dashboard bundles every projection needed to render the register page.
type Dashboard struct {
	StudentOptions []models.Option        `json:"studentOptions"`
	ClassOptions   []models.Option        `json:"classOptions"`
	StatusOptions  []models.Option        `json:"statusOptions"`
	Table          models.AttendanceTable `json:"table"`
	Stats          models.AttendanceStats `json:"stats"`
	Message        *models.Message        `json:"message,omitempty"`
	Form           MarkAttendanceRequest  `json:"form"`
	Editing        bool                   `json:"editing"`
}

// DeleteAttendanceResult reports the outcome of a confirmed deletion.
type DeleteAttendanceResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
