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

// HolidayRepository persists dated holiday entries.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// List returns holidays matching the filter, ordered by date.
func (r *HolidayRepository) List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if filter.Kind != nil && filter.Kind.Valid() {
		where = append(where, fmt.Sprintf("kind = $%d", len(args)+1))
		args = append(args, *filter.Kind)
	}
	query := fmt.Sprintf(`SELECT id, date, name, kind, created_by, created_at
FROM holidays WHERE %s ORDER BY date ASC`, strings.Join(where, " AND "))
	var rows []models.Holiday
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return rows, nil
}

// FindByDate fetches the holiday for an exact date, if any.
func (r *HolidayRepository) FindByDate(ctx context.Context, date time.Time) (*models.Holiday, error) {
	const query = `SELECT id, date, name, kind, created_by, created_at FROM holidays WHERE date = $1`
	var holiday models.Holiday
	if err := r.db.GetContext(ctx, &holiday, query, date); err != nil {
		return nil, err
	}
	return &holiday, nil
}

// Create inserts a holiday entry.
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	if holiday.CreatedAt.IsZero() {
		holiday.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO holidays (id, date, name, kind, created_by, created_at)
VALUES (:id, :date, :name, :kind, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, holiday); err != nil {
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// DeleteByDate removes the holiday on the given date.
func (r *HolidayRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM holidays WHERE date = $1", date); err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	return nil
}
