package models

import "time"

// AttendanceStatus marks a student's presence for a day.
type AttendanceStatus string

// Possible attendance statuses.
const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLeave   AttendanceStatus = "leave"
)

// Attendance is one student's record for one day.
type Attendance struct {
	ID        string           `json:"id"`
	StudentID string           `json:"student_id"`
	Class     string           `json:"class"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// EntityID implements store.Entity.
func (a Attendance) EntityID() string { return a.ID }

// WithID implements store.Entity.
func (a Attendance) WithID(id string) Attendance {
	a.ID = id
	return a
}
