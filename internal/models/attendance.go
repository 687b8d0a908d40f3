package models

import "time"

// Attendance records one worker's presence on a day. Several records for the
// same worker and date are allowed.
type Attendance struct {
	ID           int64      `db:"id" json:"id"`
	WorkerID     int64      `db:"worker_id" json:"worker_id"`
	Date         Date       `db:"date" json:"date"`
	CheckInTime  *ClockTime `db:"check_in_time" json:"check_in_time"`
	CheckOutTime *ClockTime `db:"check_out_time" json:"check_out_time"`
	HoursWorked  float64    `db:"hours_worked" json:"hours_worked"`
	IsPresent    bool       `db:"is_present" json:"is_present"`
	Notes        *string    `db:"notes" json:"notes"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter defines query filters. SiteID is resolved through the worker.
type AttendanceFilter struct {
	WorkerID  *int64
	SiteID    *int64
	DateRange DateRange
}

// DateRange narrows a date column to an exact day and/or an inclusive range.
type DateRange struct {
	On    *Date
	Start *Date
	End   *Date
}

// Empty reports whether no bound is set.
func (r DateRange) Empty() bool {
	return r.On == nil && r.Start == nil && r.End == nil
}
