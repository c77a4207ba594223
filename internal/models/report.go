package models

// MonthlyStats summarises one person's month: the calendar split into
// holidays and working days, attendance on working days, and days covered by
// approved leave.
type MonthlyStats struct {
	PersonID      string `json:"person_id"`
	Month         int    `json:"month"`
	Year          int    `json:"year"`
	WorkingDays   int    `json:"working_days"`
	AttendedDays  int    `json:"attended_days"`
	HolidayCount  int    `json:"holiday_count"`
	LeaveDays     int    `json:"leave_days"`
	AttendancePct int    `json:"attendance_pct"`
}

// MonthlyDayDetail is one calendar day in an exported monthly sheet.
type MonthlyDayDetail struct {
	Date     string `json:"date"`
	Kind     string `json:"kind"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Status   string `json:"status,omitempty"`
}
