package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hrms-suite/ledger-api/internal/models"
)

// SettingsRepository persists the single organization settings row.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

type orgSettingsRow struct {
	SiteName    string        `db:"site_name"`
	Tagline     string        `db:"tagline"`
	LogoURL     string        `db:"logo_url"`
	WorkingDays pq.Int64Array `db:"working_days"`
	UpdatedBy   *string       `db:"updated_by"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

// Get returns the organization settings. Defaults are returned when no row
// has been saved yet.
func (r *SettingsRepository) Get(ctx context.Context) (*models.OrgSettings, error) {
	const query = `SELECT site_name, tagline, logo_url, working_days, updated_by, updated_at
FROM org_settings WHERE id = 1`
	var row orgSettingsRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			defaults := models.DefaultOrgSettings()
			return &defaults, nil
		}
		return nil, fmt.Errorf("get org settings: %w", err)
	}
	settings := &models.OrgSettings{
		SiteName:  row.SiteName,
		Tagline:   row.Tagline,
		LogoURL:   row.LogoURL,
		UpdatedBy: row.UpdatedBy,
		UpdatedAt: row.UpdatedAt,
	}
	settings.WorkingDays = make(models.WorkingDaySet, 0, len(row.WorkingDays))
	for _, d := range row.WorkingDays {
		settings.WorkingDays = append(settings.WorkingDays, int(d))
	}
	return settings, nil
}

// Upsert stores the settings row, replacing any previous values in a single
// write.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.OrgSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	days := make(pq.Int64Array, 0, len(settings.WorkingDays))
	for _, d := range settings.WorkingDays {
		days = append(days, int64(d))
	}
	const query = `INSERT INTO org_settings (id, site_name, tagline, logo_url, working_days, updated_by, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6)
ON CONFLICT (id)
DO UPDATE SET site_name = EXCLUDED.site_name, tagline = EXCLUDED.tagline, logo_url = EXCLUDED.logo_url,
working_days = EXCLUDED.working_days, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, settings.SiteName, settings.Tagline, settings.LogoURL, days, settings.UpdatedBy, settings.UpdatedAt); err != nil {
		return fmt.Errorf("upsert org settings: %w", err)
	}
	return nil
}
