package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/pkg/config"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

type reportCalendarStub struct {
	workingDays models.WorkingDaySet
	holidays    []models.Holiday
}

func (s reportCalendarStub) WorkingDays(ctx context.Context) (models.WorkingDaySet, error) {
	return s.workingDays, nil
}

func (s reportCalendarStub) ListHolidays(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error) {
	return s.holidays, nil
}

type reportAttendanceStub struct {
	records []models.AttendanceRecord
}

func (s reportAttendanceStub) ListRange(ctx context.Context, personID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	return s.records, nil
}

type reportLeaveStub struct {
	approved []models.LeaveRequest
}

func (s reportLeaveStub) ListApprovedInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.LeaveRequest, error) {
	return s.approved, nil
}

type cacheRepoStub struct {
	entries map[string][]byte
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{entries: make(map[string][]byte)}
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return nil
}

// juneWeekdays returns the Monday-Friday dates of June 2026 in order. The
// month has 22 of them.
func juneWeekdays() []time.Time {
	var days []time.Time
	first := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == time.June; d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd >= time.Monday && wd <= time.Friday {
			days = append(days, d)
		}
	}
	return days
}

func reportTestConfig() config.Config {
	return config.Config{
		Ledger:  config.LedgerConfig{FullDayMinutes: 480, HalfDayMinutes: 240},
		Reports: config.ReportsConfig{CacheTTL: time.Minute, ExportEnabled: true},
	}
}

func TestReportServiceMonthlyStatsRounding(t *testing.T) {
	weekdays := juneWeekdays()
	require.Len(t, weekdays, 22)

	records := make([]models.AttendanceRecord, 0, 18)
	for _, day := range weekdays[:18] {
		checkIn := day.Add(9 * time.Hour)
		checkOut := day.Add(18 * time.Hour)
		records = append(records, models.AttendanceRecord{
			PersonID: "emp-1", Date: day, CheckIn: &checkIn, CheckOut: &checkOut,
		})
	}
	leave := []models.LeaveRequest{{
		OwnerID:  "emp-1",
		FromDate: weekdays[18],
		ToDate:   weekdays[19],
		Status:   models.LeaveStatusApproved,
	}}

	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{records: records},
		reportLeaveStub{approved: leave},
		nil,
		reportTestConfig(),
		nil,
	)

	stats, cached, err := svc.MonthlyStats(context.Background(), employeeActor, "", 6, 2026)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 22, stats.WorkingDays)
	assert.Equal(t, 18, stats.AttendedDays)
	assert.Equal(t, 2, stats.LeaveDays)
	assert.Equal(t, 0, stats.HolidayCount)
	// round(100 * 20 / 22) = 91
	assert.Equal(t, 91, stats.AttendancePct)
}

func TestReportServiceCountsHolidaysSeparately(t *testing.T) {
	weekdays := juneWeekdays()
	holiday := models.Holiday{Date: weekdays[0], Name: "Founders Day", Kind: models.HolidayKindCompany}

	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays(), holidays: []models.Holiday{holiday}},
		reportAttendanceStub{},
		reportLeaveStub{},
		nil,
		reportTestConfig(),
		nil,
	)

	stats, _, err := svc.MonthlyStats(context.Background(), employeeActor, "", 6, 2026)
	require.NoError(t, err)
	assert.Equal(t, 21, stats.WorkingDays)
	assert.Equal(t, 1, stats.HolidayCount)
}

func TestReportServiceZeroWorkingDays(t *testing.T) {
	svc := NewReportService(
		reportCalendarStub{workingDays: models.WorkingDaySet{}},
		reportAttendanceStub{},
		reportLeaveStub{},
		nil,
		reportTestConfig(),
		nil,
	)

	stats, _, err := svc.MonthlyStats(context.Background(), employeeActor, "", 6, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.WorkingDays)
	assert.Equal(t, 0, stats.AttendancePct)
}

func TestReportServiceCachesSecondRead(t *testing.T) {
	cache := NewReportCache(newCacheRepoStub(), nil, time.Minute, nil, true)
	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{},
		reportLeaveStub{},
		cache,
		reportTestConfig(),
		nil,
	)
	ctx := context.Background()

	_, cached, err := svc.MonthlyStats(ctx, employeeActor, "", 6, 2026)
	require.NoError(t, err)
	assert.False(t, cached)

	stats, cached, err := svc.MonthlyStats(ctx, employeeActor, "", 6, 2026)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 22, stats.WorkingDays)
}

func TestReportServiceScopesEmployeeToSelf(t *testing.T) {
	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{},
		reportLeaveStub{},
		nil,
		reportTestConfig(),
		nil,
	)

	_, _, err := svc.MonthlyStats(context.Background(), employeeActor, "emp-2", 6, 2026)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	hr := models.JWTClaims{UserID: "hr-1", Role: models.RoleHR}
	_, _, err = svc.MonthlyStats(context.Background(), hr, "emp-2", 6, 2026)
	require.NoError(t, err)
}

func TestReportServiceRejectsBadMonth(t *testing.T) {
	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{},
		reportLeaveStub{},
		nil,
		reportTestConfig(),
		nil,
	)

	_, _, err := svc.MonthlyStats(context.Background(), employeeActor, "", 13, 2026)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceExportCSV(t *testing.T) {
	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{},
		reportLeaveStub{},
		nil,
		reportTestConfig(),
		nil,
	)

	result, err := svc.ExportMonthly(context.Background(), employeeActor, "", 6, 2026, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Contains(t, result.FileName, "2026-06")
	body := string(result.Payload)
	assert.Contains(t, body, "Date")
	assert.Contains(t, body, "2026-06-01")
	assert.Contains(t, body, "Totals")
	assert.Contains(t, body, "working=22")
	// header + 30 days + totals
	assert.Len(t, strings.Split(strings.TrimSpace(body), "\n"), 32)
}

func TestReportServiceExportDisabled(t *testing.T) {
	cfg := reportTestConfig()
	cfg.Reports.ExportEnabled = false
	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{},
		reportLeaveStub{},
		nil,
		cfg,
		nil,
	)

	_, err := svc.ExportMonthly(context.Background(), employeeActor, "", 6, 2026, ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReportServiceLeaveSpansNonWorkingDays(t *testing.T) {
	// Friday June 5 through Monday June 8: the weekend in the middle still
	// counts toward leave, as does the attended Friday.
	checkIn := time.Date(2026, 6, 5, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 6, 5, 18, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{{
		PersonID: "emp-1",
		Date:     time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		CheckIn:  &checkIn,
		CheckOut: &checkOut,
	}}
	leave := []models.LeaveRequest{{
		OwnerID:  "emp-1",
		FromDate: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		Status:   models.LeaveStatusApproved,
	}}

	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{records: records},
		reportLeaveStub{approved: leave},
		nil,
		reportTestConfig(),
		nil,
	)

	stats, _, err := svc.MonthlyStats(context.Background(), employeeActor, "", 6, 2026)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.LeaveDays)
	assert.Equal(t, 1, stats.AttendedDays)
}

func TestReportServiceIgnoresRecordWithoutCheckIn(t *testing.T) {
	records := []models.AttendanceRecord{{
		PersonID: "emp-1",
		Date:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}}

	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{records: records},
		reportLeaveStub{},
		nil,
		reportTestConfig(),
		nil,
	)

	stats, _, err := svc.MonthlyStats(context.Background(), employeeActor, "", 6, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.AttendedDays)
}

func TestReportServiceExportPDF(t *testing.T) {
	svc := NewReportService(
		reportCalendarStub{workingDays: models.DefaultWorkingDays()},
		reportAttendanceStub{},
		reportLeaveStub{},
		nil,
		reportTestConfig(),
		nil,
	)

	result, err := svc.ExportMonthly(context.Background(), employeeActor, "", 6, 2026, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Contains(t, result.FileName, ".pdf")
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}
