package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/pkg/config"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

type holidayRepoStub struct {
	byDate map[string]models.Holiday
	err    error
}

func newHolidayRepoStub() *holidayRepoStub {
	return &holidayRepoStub{byDate: make(map[string]models.Holiday)}
}

func (s *holidayRepoStub) List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.Holiday{}
	for _, h := range s.byDate {
		if filter.DateFrom != nil && h.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && h.Date.After(*filter.DateTo) {
			continue
		}
		result = append(result, h)
	}
	return result, nil
}

func (s *holidayRepoStub) FindByDate(ctx context.Context, date time.Time) (*models.Holiday, error) {
	if s.err != nil {
		return nil, s.err
	}
	if h, ok := s.byDate[date.Format("2006-01-02")]; ok {
		return &h, nil
	}
	return nil, sql.ErrNoRows
}

func (s *holidayRepoStub) Create(ctx context.Context, holiday *models.Holiday) error {
	if s.err != nil {
		return s.err
	}
	if holiday.ID == "" {
		holiday.ID = "hol-" + holiday.Date.Format("20060102")
	}
	s.byDate[holiday.Date.Format("2006-01-02")] = *holiday
	return nil
}

func (s *holidayRepoStub) DeleteByDate(ctx context.Context, date time.Time) error {
	if s.err != nil {
		return s.err
	}
	delete(s.byDate, date.Format("2006-01-02"))
	return nil
}

type settingsRepoStub struct {
	settings models.OrgSettings
	err      error
}

func (s *settingsRepoStub) Get(ctx context.Context) (*models.OrgSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	copy := s.settings
	return &copy, nil
}

func (s *settingsRepoStub) Upsert(ctx context.Context, settings *models.OrgSettings) error {
	if s.err != nil {
		return s.err
	}
	s.settings = *settings
	return nil
}

func newCalendarServiceForTest(holidays *holidayRepoStub, settings *settingsRepoStub) *CalendarService {
	cfg := config.LedgerConfig{DefaultHolidayTag: "Custom Holiday"}
	return NewCalendarService(holidays, settings, nil, cfg, nil)
}

var hrActor = models.JWTClaims{UserID: "hr-1", Role: models.RoleHR}

func TestCalendarServiceIsHolidayWeekend(t *testing.T) {
	svc := newCalendarServiceForTest(newHolidayRepoStub(), &settingsRepoStub{settings: models.OrgSettings{WorkingDays: models.DefaultWorkingDays()}})

	// 2026-03-07 is a Saturday.
	off, holiday, err := svc.IsHoliday(context.Background(), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, off)
	assert.Nil(t, holiday)

	// 2026-03-09 is a Monday.
	off, _, err = svc.IsHoliday(context.Background(), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, off)
}

func TestCalendarServiceToggleHolidayIsSelfInverse(t *testing.T) {
	holidays := newHolidayRepoStub()
	svc := newCalendarServiceForTest(holidays, &settingsRepoStub{settings: models.OrgSettings{WorkingDays: models.DefaultWorkingDays()}})
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	first, err := svc.ToggleHoliday(context.Background(), hrActor, monday)
	require.NoError(t, err)
	assert.True(t, first.Toggled)
	assert.Equal(t, DayKindHoliday, first.Kind)
	require.NotNil(t, first.Entry)
	assert.Equal(t, "Custom Holiday", first.Entry.Name)
	assert.Equal(t, models.HolidayKindCompany, first.Entry.Kind)

	second, err := svc.ToggleHoliday(context.Background(), hrActor, monday)
	require.NoError(t, err)
	assert.True(t, second.Toggled)
	assert.Equal(t, DayKindWorking, second.Kind)
	assert.Empty(t, holidays.byDate)
}

func TestCalendarServiceToggleHolidayWeekendNoop(t *testing.T) {
	holidays := newHolidayRepoStub()
	svc := newCalendarServiceForTest(holidays, &settingsRepoStub{settings: models.OrgSettings{WorkingDays: models.DefaultWorkingDays()}})
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	result, err := svc.ToggleHoliday(context.Background(), hrActor, saturday)
	require.NoError(t, err)
	assert.False(t, result.Toggled)
	assert.Equal(t, DayKindWeekend, result.Kind)
	assert.Empty(t, holidays.byDate)
}

func TestCalendarServiceToggleHolidayRequiresManager(t *testing.T) {
	svc := newCalendarServiceForTest(newHolidayRepoStub(), &settingsRepoStub{settings: models.OrgSettings{WorkingDays: models.DefaultWorkingDays()}})
	employee := models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}

	_, err := svc.ToggleHoliday(context.Background(), employee, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCalendarServiceToggleWorkingDay(t *testing.T) {
	settings := &settingsRepoStub{settings: models.OrgSettings{WorkingDays: models.WorkingDaySet{1}}}
	svc := newCalendarServiceForTest(newHolidayRepoStub(), settings)

	set, err := svc.ToggleWorkingDay(context.Background(), hrActor, 1)
	require.NoError(t, err)
	assert.Empty(t, set)

	set, err = svc.ToggleWorkingDay(context.Background(), hrActor, 3)
	require.NoError(t, err)
	assert.Equal(t, models.WorkingDaySet{3}, set)

	_, err = svc.ToggleWorkingDay(context.Background(), hrActor, 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCalendarServiceAddHolidayConflict(t *testing.T) {
	holidays := newHolidayRepoStub()
	svc := newCalendarServiceForTest(holidays, &settingsRepoStub{settings: models.OrgSettings{WorkingDays: models.DefaultWorkingDays()}})
	date := time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)

	_, err := svc.AddHoliday(context.Background(), hrActor, AddHolidayRequest{Date: date, Name: "Republic Day", Kind: models.HolidayKindPublic})
	require.NoError(t, err)

	_, err = svc.AddHoliday(context.Background(), hrActor, AddHolidayRequest{Date: date, Name: "Duplicate"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
