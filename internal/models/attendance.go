package models

import "time"

// AttendanceStatus is the derived state of a daily attendance record.
type AttendanceStatus string

const (
	AttendanceStatusFullDay    AttendanceStatus = "Full Day"
	AttendanceStatusHalfDay    AttendanceStatus = "Half Day"
	AttendanceStatusPartialDay AttendanceStatus = "Partial Day"
	AttendanceStatusPending    AttendanceStatus = "Pending Check-out"
)

// AttendanceRecord captures check-in/check-out events for one person on one
// calendar date. At most one record exists per (person, date) pair.
type AttendanceRecord struct {
	ID        string     `db:"id" json:"id"`
	PersonID  string     `db:"person_id" json:"person_id"`
	Date      time.Time  `db:"date" json:"date"`
	CheckIn   *time.Time `db:"check_in" json:"check_in,omitempty"`
	CheckOut  *time.Time `db:"check_out" json:"check_out,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// DurationMinutes returns the minutes between check-in and check-out, or 0
// while the record is incomplete.
func (r AttendanceRecord) DurationMinutes() int {
	if r.CheckIn == nil || r.CheckOut == nil {
		return 0
	}
	return int(r.CheckOut.Sub(*r.CheckIn).Minutes())
}

// Status derives the daily status from the recorded duration given the
// organization's full-day and half-day thresholds in minutes.
func (r AttendanceRecord) Status(fullDayMinutes, halfDayMinutes int) AttendanceStatus {
	if r.CheckOut == nil {
		return AttendanceStatusPending
	}
	minutes := r.DurationMinutes()
	switch {
	case minutes >= fullDayMinutes:
		return AttendanceStatusFullDay
	case minutes >= halfDayMinutes:
		return AttendanceStatusHalfDay
	default:
		return AttendanceStatusPartialDay
	}
}

// AttendanceRow extends the record with employee metadata for listings.
type AttendanceRow struct {
	AttendanceRecord
	EmployeeName  string `db:"employee_name" json:"employee_name"`
	EmployeeEmail string `db:"employee_email" json:"employee_email"`
}

// AttendanceFilter defines query filters for attendance listings.
type AttendanceFilter struct {
	PersonID  string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
