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

// LeaveRepository handles persistence for leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

const leaveColumns = "id, owner_id, from_date, to_date, days, type, reason, status, rejection_remark, status_updated_at, status_updated_by, created_at, updated_at"

// GetByID fetches a leave request.
func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM leave_requests WHERE id = $1", leaveColumns)
	var req models.LeaveRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns leave rows with owner metadata matching the filter.
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRow, int, error) {
	base := `FROM leave_requests lr
JOIN employees e ON e.id = lr.owner_id`
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.OwnerID != "" {
		where = append(where, fmt.Sprintf("lr.owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("lr.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("lr.to_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("lr.from_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"from":       "lr.from_date",
		"status":     "lr.status",
		"created_at": "lr.created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "lr.created_at"
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

	query := fmt.Sprintf(`SELECT lr.id, lr.owner_id, lr.from_date, lr.to_date, lr.days, lr.type, lr.reason, lr.status,
lr.rejection_remark, lr.status_updated_at, lr.status_updated_by, lr.created_at, lr.updated_at,
e.full_name AS owner_name, e.email AS owner_email
%s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, whereClause, sortColumn, order, size, offset)
	var rows []models.LeaveRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}
	return rows, total, nil
}

// ListActiveByOwner returns the owner's non-Rejected requests. The overlap
// rule is evaluated against this set.
func (r *LeaveRepository) ListActiveByOwner(ctx context.Context, ownerID string) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_requests
WHERE owner_id = $1 AND status <> $2 ORDER BY from_date ASC`, leaveColumns)
	var rows []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, models.LeaveStatusRejected); err != nil {
		return nil, fmt.Errorf("list active leave requests: %w", err)
	}
	return rows, nil
}

// ListApprovedInRange returns the owner's approved requests intersecting
// [from, to]. Used by the monthly aggregator.
func (r *LeaveRepository) ListApprovedInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_requests
WHERE owner_id = $1 AND status = $2 AND from_date <= $3 AND to_date >= $4
ORDER BY from_date ASC`, leaveColumns)
	var rows []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, models.LeaveStatusApproved, to, from); err != nil {
		return nil, fmt.Errorf("list approved leave requests: %w", err)
	}
	return rows, nil
}

// Create inserts a leave request.
func (r *LeaveRepository) Create(ctx context.Context, req *models.LeaveRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	query := `INSERT INTO leave_requests (id, owner_id, from_date, to_date, days, type, reason, status, rejection_remark, status_updated_at, status_updated_by, created_at, updated_at)
VALUES (:id, :owner_id, :from_date, :to_date, :days, :type, :reason, :status, :rejection_remark, :status_updated_at, :status_updated_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a request.
func (r *LeaveRepository) Update(ctx context.Context, req *models.LeaveRequest) error {
	req.UpdatedAt = time.Now().UTC()
	query := `UPDATE leave_requests SET from_date = :from_date, to_date = :to_date, days = :days,
type = :type, reason = :reason, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("update leave request: %w", err)
	}
	return nil
}

// UpdateStatus records a terminal status transition.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, req *models.LeaveRequest) error {
	req.UpdatedAt = time.Now().UTC()
	query := `UPDATE leave_requests SET status = :status, rejection_remark = :rejection_remark,
status_updated_at = :status_updated_at, status_updated_by = :status_updated_by, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("update leave status: %w", err)
	}
	return nil
}

// Delete removes a leave request.
func (r *LeaveRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM leave_requests WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete leave request: %w", err)
	}
	return nil
}
