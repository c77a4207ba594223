package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/pkg/config"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

type attendanceRepoStub struct {
	records map[string]*models.AttendanceRecord
	rows    []models.AttendanceRow
	lastFilter  models.AttendanceFilter
	err     error
}

func newAttendanceRepoStub() *attendanceRepoStub {
	return &attendanceRepoStub{records: make(map[string]*models.AttendanceRecord)}
}

func attendanceKey(personID string, date time.Time) string {
	return fmt.Sprintf("%s|%s", personID, date.Format("2006-01-02"))
}

func (s *attendanceRepoStub) FindByPersonAndDate(ctx context.Context, personID string, date time.Time) (*models.AttendanceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if rec, ok := s.records[attendanceKey(personID, date)]; ok {
		copy := *rec
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *attendanceRepoStub) Create(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	record.ID = attendanceKey(record.PersonID, record.Date)
	stored := *record
	s.records[record.ID] = &stored
	copy := stored
	return &copy, nil
}

func (s *attendanceRepoStub) SetCheckOut(ctx context.Context, id string, checkOut time.Time) (*models.AttendanceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec, ok := s.records[id]
	if !ok || rec.CheckOut != nil {
		return nil, sql.ErrNoRows
	}
	rec.CheckOut = &checkOut
	copy := *rec
	return &copy, nil
}

func (s *attendanceRepoStub) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRow, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	s.lastFilter = filter
	return s.rows, len(s.rows), nil
}

func (s *attendanceRepoStub) ListRange(ctx context.Context, personID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	return nil, nil
}

type calendarPolicyStub struct {
	off bool
	err error
}

func (s calendarPolicyStub) IsHoliday(ctx context.Context, date time.Time) (bool, *models.Holiday, error) {
	return s.off, nil, s.err
}

func newAttendanceServiceForTest(repo *attendanceRepoStub, calendar calendarPolicyStub, at time.Time) *AttendanceService {
	cfg := config.LedgerConfig{FullDayMinutes: 480, HalfDayMinutes: 240}
	svc := NewAttendanceService(repo, calendar, nil, nil, cfg, nil)
	svc.now = func() time.Time { return at }
	return svc
}

var employeeActor = models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}

func TestAttendanceServiceCheckInOutCycle(t *testing.T) {
	repo := newAttendanceRepoStub()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	svc := newAttendanceServiceForTest(repo, calendarPolicyStub{}, day.Add(9*time.Hour))

	first, err := svc.CheckInOut(context.Background(), employeeActor, day)
	require.NoError(t, err)
	assert.Equal(t, AttendanceActionCheckedIn, first.Action)
	assert.Equal(t, models.AttendanceStatusPending, first.Status)

	svc.now = func() time.Time { return day.Add(18 * time.Hour) }
	second, err := svc.CheckInOut(context.Background(), employeeActor, day)
	require.NoError(t, err)
	assert.Equal(t, AttendanceActionCheckedOut, second.Action)
	assert.Equal(t, 540, second.Record.DurationMinutes())
	assert.Equal(t, models.AttendanceStatusFullDay, second.Status)

	third, err := svc.CheckInOut(context.Background(), employeeActor, day)
	require.NoError(t, err)
	assert.Equal(t, AttendanceActionNone, third.Action)
	assert.Equal(t, 540, third.Record.DurationMinutes())
}

func TestAttendanceServiceHalfDayStatus(t *testing.T) {
	repo := newAttendanceRepoStub()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	svc := newAttendanceServiceForTest(repo, calendarPolicyStub{}, day.Add(9*time.Hour))

	_, err := svc.CheckInOut(context.Background(), employeeActor, day)
	require.NoError(t, err)

	svc.now = func() time.Time { return day.Add(13*time.Hour + 30*time.Minute) }
	out, err := svc.CheckInOut(context.Background(), employeeActor, day)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusHalfDay, out.Status)
}

func TestAttendanceServiceRejectsOtherDates(t *testing.T) {
	repo := newAttendanceRepoStub()
	today := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	svc := newAttendanceServiceForTest(repo, calendarPolicyStub{}, today.Add(9*time.Hour))

	_, err := svc.CheckInOut(context.Background(), employeeActor, today.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}

func TestAttendanceServiceHolidayIsSilentNoop(t *testing.T) {
	repo := newAttendanceRepoStub()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	svc := newAttendanceServiceForTest(repo, calendarPolicyStub{off: true}, day.Add(9*time.Hour))

	outcome, err := svc.CheckInOut(context.Background(), employeeActor, day)
	require.NoError(t, err)
	assert.Equal(t, AttendanceActionHoliday, outcome.Action)
	assert.Nil(t, outcome.Record)
	assert.Empty(t, repo.records)
}

func TestAttendanceServiceListScopesEmployeeToSelf(t *testing.T) {
	repo := newAttendanceRepoStub()
	svc := newAttendanceServiceForTest(repo, calendarPolicyStub{}, time.Now())

	_, _, err := svc.List(context.Background(), employeeActor, AttendanceListRequest{PersonID: "someone-else"})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", repo.lastFilter.PersonID)

	manager := models.JWTClaims{UserID: "hr-1", Role: models.RoleHR}
	_, _, err = svc.List(context.Background(), manager, AttendanceListRequest{PersonID: "someone-else"})
	require.NoError(t, err)
	assert.Equal(t, "someone-else", repo.lastFilter.PersonID)
}
