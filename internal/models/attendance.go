package models

import "strings"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
	AttendanceStatusLate    AttendanceStatus = "Late"
)

// AttendanceStatuses lists the supported statuses in display order.
var AttendanceStatuses = []AttendanceStatus{AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// CountsAsPresent reports whether the status contributes to the present tally.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusLate
}

// CSSClass returns the lowercase token used to style the status badge.
func (s AttendanceStatus) CSSClass() string {
	return strings.ToLower(string(s))
}

// AttendanceDateLayout is the calendar date format used for records and filters.
const AttendanceDateLayout = "2006-01-02"

// AttendanceRecord is one status entry for one student on one date. The
// student fields are a snapshot taken when the attendance was marked.
type AttendanceRecord struct {
	ID          int64            `json:"id"`
	StudentID   int64            `json:"studentId"`
	StudentName string           `json:"studentName"`
	RollNumber  string           `json:"rollNumber"`
	Class       string           `json:"class"`
	Date        string           `json:"date"`
	Status      AttendanceStatus `json:"status"`
	Remarks     string           `json:"remarks"`
}

// AttendanceFilter holds the table filters; empty fields match everything.
type AttendanceFilter struct {
	Class  string           `form:"class" json:"class,omitempty"`
	Date   string           `form:"date" json:"date,omitempty"`
	Status AttendanceStatus `form:"status" json:"status,omitempty"`
}

// Matches applies the non-empty predicates as a logical AND.
func (f AttendanceFilter) Matches(r AttendanceRecord) bool {
	if f.Class != "" && r.Class != f.Class {
		return false
	}
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}
