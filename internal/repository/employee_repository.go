package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hrms-suite/ledger-api/internal/models"
)

// EmployeeRepository handles persistence for the employee directory and its
// archive.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = "id, full_name, email, job_title, department, phone, salary, role, start_date, created_at, updated_at"

// List returns employees matching the provided filter.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	base := "FROM employees"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Department != "" {
		where = append(where, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Role != nil && filter.Role.Valid() {
		where = append(where, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"name":       "full_name",
		"email":      "email",
		"start_date": "start_date",
		"created_at": "created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "full_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d",
		employeeColumns, base, whereClause, sortColumn, order, size, offset)
	var rows []models.Employee
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	return rows, total, nil
}

// GetByID fetches an employee.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE id = $1", employeeColumns)
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, id); err != nil {
		return nil, err
	}
	return &emp, nil
}

// Create inserts an employee.
func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	emp.UpdatedAt = now
	query := `INSERT INTO employees (id, full_name, email, job_title, department, phone, salary, role, start_date, created_at, updated_at)
VALUES (:id, :full_name, :email, :job_title, :department, :phone, :salary, :role, :start_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, emp); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update modifies an employee row.
func (r *EmployeeRepository) Update(ctx context.Context, emp *models.Employee) error {
	emp.UpdatedAt = time.Now().UTC()
	query := `UPDATE employees SET full_name = :full_name, email = :email, job_title = :job_title,
department = :department, phone = :phone, salary = :salary, role = :role, start_date = :start_date, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, emp); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Delete removes an employee permanently.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

// Archive moves an employee into the archive table. The directory row is
// removed and the full record preserved so Restore can undo the move.
func (r *EmployeeRepository) Archive(ctx context.Context, id, archivedBy string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive employee: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()

	insert := fmt.Sprintf(`INSERT INTO archived_employees (%s, archived_at, archived_by)
SELECT %s, $2, $3 FROM employees WHERE id = $1
ON CONFLICT (id) DO NOTHING`, employeeColumns, employeeColumns)
	res, err := tx.ExecContext(ctx, insert, id, time.Now().UTC(), archivedBy)
	if err != nil {
		return fmt.Errorf("archive employee: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)", id); err != nil {
			return fmt.Errorf("archive employee lookup: %w", err)
		}
		if !exists {
			return sql.ErrNoRows
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM employees WHERE id = $1", id); err != nil {
		return fmt.Errorf("archive employee cleanup: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive employee: %w", err)
	}
	commit = true
	return nil
}

// Restore moves an archived employee back into the directory.
func (r *EmployeeRepository) Restore(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin restore employee: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()

	insert := fmt.Sprintf(`INSERT INTO employees (%s)
SELECT %s FROM archived_employees WHERE id = $1
ON CONFLICT (id) DO NOTHING`, employeeColumns, employeeColumns)
	res, err := tx.ExecContext(ctx, insert, id)
	if err != nil {
		return fmt.Errorf("restore employee: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM archived_employees WHERE id = $1)", id); err != nil {
			return fmt.Errorf("restore employee lookup: %w", err)
		}
		if !exists {
			return sql.ErrNoRows
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM archived_employees WHERE id = $1", id); err != nil {
		return fmt.Errorf("restore employee cleanup: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore employee: %w", err)
	}
	commit = true
	return nil
}

// ListArchived returns every archived employee, newest first.
func (r *EmployeeRepository) ListArchived(ctx context.Context) ([]models.ArchivedEmployee, error) {
	query := fmt.Sprintf("SELECT %s, archived_at, archived_by FROM archived_employees ORDER BY archived_at DESC", employeeColumns)
	var rows []models.ArchivedEmployee
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list archived employees: %w", err)
	}
	return rows, nil
}

// DeleteArchived permanently removes an archived employee.
func (r *EmployeeRepository) DeleteArchived(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM archived_employees WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete archived employee: %w", err)
	}
	return nil
}
