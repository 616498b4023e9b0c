package models

// Option is one entry of a select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AttendanceRow is a display-ready attendance table row.
type AttendanceRow struct {
	ID          int64            `json:"id"`
	StudentID   int64            `json:"studentId"`
	RollNumber  string           `json:"rollNumber"`
	StudentName string           `json:"studentName"`
	Class       string           `json:"class"`
	Date        string           `json:"date"`
	DateLabel   string           `json:"dateLabel"`
	Status      AttendanceStatus `json:"status"`
	StatusClass string           `json:"statusClass"`
	Remarks     string           `json:"remarks"`
}

// AttendanceTable is the filtered attendance table.
type AttendanceTable struct {
	Filter       AttendanceFilter `json:"filter"`
	Rows         []AttendanceRow  `json:"rows"`
	Empty        bool             `json:"empty"`
	EmptyMessage string           `json:"emptyMessage,omitempty"`
}

// AttendanceStats holds the counters computed for the current day.
type AttendanceStats struct {
	Date           string  `json:"date"`
	TotalStudents  int     `json:"totalStudents"`
	PresentToday   int     `json:"presentToday"`
	AbsentToday    int     `json:"absentToday"`
	RecordsToday   int     `json:"recordsToday"`
	AttendanceRate float64 `json:"attendanceRate"`
	RateLabel      string  `json:"rateLabel"`
}
