package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-suite/ledger-api/internal/models"
)

func newHolidayMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestHolidayRepositoryFindByDate(t *testing.T) {
	db, mock, cleanup := newHolidayMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	date := time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "date", "name", "kind", "created_by", "created_at"}).
		AddRow("hol-1", date, "Republic Day", models.HolidayKindPublic, "admin-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, name, kind, created_by, created_at FROM holidays WHERE date = $1")).
		WithArgs(date).
		WillReturnRows(rows)

	holiday, err := repo.FindByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, "Republic Day", holiday.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newHolidayMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	mock.ExpectExec("INSERT INTO holidays").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	holiday := &models.Holiday{
		Date:      time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Name:      "Custom Holiday",
		Kind:      models.HolidayKindCompany,
		CreatedBy: "admin-1",
	}
	err := repo.Create(context.Background(), holiday)
	require.NoError(t, err)
	assert.NotEmpty(t, holiday.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryDeleteByDate(t *testing.T) {
	db, mock, cleanup := newHolidayMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM holidays WHERE date = $1")).
		WithArgs(date).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.DeleteByDate(context.Background(), date))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryListByKind(t *testing.T) {
	db, mock, cleanup := newHolidayMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	kind := models.HolidayKindCompany
	rows := sqlmock.NewRows([]string{"id", "date", "name", "kind", "created_by", "created_at"}).
		AddRow("hol-2", time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), "Custom Holiday", kind, "admin-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM holidays WHERE 1=1 AND kind = $1 ORDER BY date ASC")).
		WithArgs(kind).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.HolidayFilter{Kind: &kind})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
