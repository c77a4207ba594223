package models

import "time"

// Employee represents a person in the organization directory.
type Employee struct {
	ID         string     `db:"id" json:"id"`
	FullName   string     `db:"full_name" json:"full_name"`
	Email      string     `db:"email" json:"email"`
	JobTitle   *string    `db:"job_title" json:"job_title,omitempty"`
	Department *string    `db:"department" json:"department,omitempty"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	Salary     *float64   `db:"salary" json:"salary,omitempty"`
	Role       UserRole   `db:"role" json:"role"`
	StartDate  *time.Time `db:"start_date" json:"start_date,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// ArchivedEmployee is an employee moved out of the active directory. The full
// row is preserved so a restore returns it unchanged.
type ArchivedEmployee struct {
	Employee
	ArchivedAt time.Time `db:"archived_at" json:"archived_at"`
	ArchivedBy string    `db:"archived_by" json:"archived_by"`
}

// EmployeeFilter captures filtering criteria for listing employees.
type EmployeeFilter struct {
	Search     string
	Department string
	Role       *UserRole
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
