package models

import "time"

// LeaveType enumerates the supported leave categories.
type LeaveType string

const (
	LeaveTypePaid   LeaveType = "Paid"
	LeaveTypeSick   LeaveType = "Sick"
	LeaveTypeUnpaid LeaveType = "Unpaid"
	LeaveTypeOther  LeaveType = "Other"
)

// Valid returns true when the type is a supported value.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypePaid, LeaveTypeSick, LeaveTypeUnpaid, LeaveTypeOther:
		return true
	default:
		return false
	}
}

// LeaveStatus is the lifecycle state of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "Pending"
	LeaveStatusApproved LeaveStatus = "Approved"
	LeaveStatusRejected LeaveStatus = "Rejected"
)

// Valid returns true when the status is a supported value.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permits no further transitions.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

// LeaveRequest represents one leave request owned by a person.
type LeaveRequest struct {
	ID              string      `db:"id" json:"id"`
	OwnerID         string      `db:"owner_id" json:"owner_id"`
	FromDate        time.Time   `db:"from_date" json:"from"`
	ToDate          time.Time   `db:"to_date" json:"to"`
	Days            int         `db:"days" json:"days"`
	Type            LeaveType   `db:"type" json:"type"`
	Reason          string      `db:"reason" json:"reason"`
	Status          LeaveStatus `db:"status" json:"status"`
	RejectionRemark *string     `db:"rejection_remark" json:"rejection_remark,omitempty"`
	StatusUpdatedAt *time.Time  `db:"status_updated_at" json:"status_updated_at,omitempty"`
	StatusUpdatedBy *string     `db:"status_updated_by" json:"status_updated_by,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// Overlaps reports whether the request's inclusive date range intersects
// [from, to].
func (l LeaveRequest) Overlaps(from, to time.Time) bool {
	return !from.After(l.ToDate) && !to.Before(l.FromDate)
}

// Covers reports whether the date falls inside the request's range.
func (l LeaveRequest) Covers(date time.Time) bool {
	return !date.Before(l.FromDate) && !date.After(l.ToDate)
}

// InclusiveDays returns the calendar day count of [from, to], counting both
// endpoints.
func InclusiveDays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// LeaveRow extends the request with owner metadata for listings.
type LeaveRow struct {
	LeaveRequest
	OwnerName  string `db:"owner_name" json:"owner_name"`
	OwnerEmail string `db:"owner_email" json:"owner_email"`
}

// LeaveFilter defines query filters for leave listings.
type LeaveFilter struct {
	OwnerID   string
	Status    *LeaveStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
