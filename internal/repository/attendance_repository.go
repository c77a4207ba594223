package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hrms-suite/ledger-api/internal/models"
)

// AttendanceRepository handles persistence for daily attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindByPersonAndDate fetches the unique record for (person, date).
func (r *AttendanceRepository) FindByPersonAndDate(ctx context.Context, personID string, date time.Time) (*models.AttendanceRecord, error) {
	const query = `SELECT id, person_id, date, check_in, check_out, created_at, updated_at
FROM attendance_records WHERE person_id = $1 AND date = $2`
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, personID, date); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a fresh record. The unique (person_id, date) constraint
// resolves a concurrent duplicate check-in to a single row.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO attendance_records (id, person_id, date, check_in, check_out, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (person_id, date) DO NOTHING
RETURNING id, person_id, date, check_in, check_out, created_at, updated_at`
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query, record.ID, record.PersonID, record.Date, record.CheckIn, record.CheckOut, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create attendance record: %w", err)
	}
	return &stored, nil
}

// SetCheckOut fills the check-out time, but only once: a record whose
// check-out is already set is left untouched.
func (r *AttendanceRepository) SetCheckOut(ctx context.Context, id string, checkOut time.Time) (*models.AttendanceRecord, error) {
	const query = `UPDATE attendance_records
SET check_out = $2, updated_at = $3
WHERE id = $1 AND check_out IS NULL
RETURNING id, person_id, date, check_in, check_out, created_at, updated_at`
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query, id, checkOut, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &stored, nil
}

// List returns attendance rows with employee metadata matching the filter.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRow, int, error) {
	base := `FROM attendance_records ar
JOIN employees e ON e.id = ar.person_id`
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.PersonID != "" {
		where = append(where, fmt.Sprintf("ar.person_id = $%d", len(args)+1))
		args = append(args, filter.PersonID)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("ar.date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("ar.date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"date":       "ar.date",
		"check_in":   "ar.check_in",
		"created_at": "ar.created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "ar.date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT ar.id, ar.person_id, ar.date, ar.check_in, ar.check_out, ar.created_at, ar.updated_at,
e.full_name AS employee_name, e.email AS employee_email
%s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, whereClause, sortColumn, order, size, offset)
	var rows []models.AttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return rows, total, nil
}

// ListRange returns a person's records inside [from, to], ordered by date.
// Used by the monthly aggregator.
func (r *AttendanceRepository) ListRange(ctx context.Context, personID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, person_id, date, check_in, check_out, created_at, updated_at
FROM attendance_records
WHERE person_id = $1 AND date >= $2 AND date <= $3
ORDER BY date ASC`
	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, personID, from, to); err != nil {
		return nil, fmt.Errorf("list attendance range: %w", err)
	}
	return rows, nil
}
