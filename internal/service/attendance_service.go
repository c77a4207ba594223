package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/pkg/config"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

type attendanceRepository interface {
	FindByPersonAndDate(ctx context.Context, personID string, date time.Time) (*models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	SetCheckOut(ctx context.Context, id string, checkOut time.Time) (*models.AttendanceRecord, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRow, int, error)
	ListRange(ctx context.Context, personID string, from, to time.Time) ([]models.AttendanceRecord, error)
}

type calendarPolicy interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, *models.Holiday, error)
}

// AttendanceService runs the daily check-in/check-out ledger.
type AttendanceService struct {
	repo     attendanceRepository
	calendar calendarPolicy
	cache    *ReportCache
	metrics  *MetricsService
	cfg      config.LedgerConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, calendar calendarPolicy, cache *ReportCache, metrics *MetricsService, cfg config.LedgerConfig, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:     repo,
		calendar: calendar,
		cache:    cache,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// AttendanceAction describes what a punch actually did.
type AttendanceAction string

const (
	AttendanceActionCheckedIn  AttendanceAction = "checked_in"
	AttendanceActionCheckedOut AttendanceAction = "checked_out"
	AttendanceActionNone       AttendanceAction = "none"
	AttendanceActionHoliday    AttendanceAction = "holiday"
)

// AttendanceOutcome is the result of a punch attempt.
type AttendanceOutcome struct {
	Action AttendanceAction         `json:"action"`
	Record *models.AttendanceRecord `json:"record,omitempty"`
	Status models.AttendanceStatus  `json:"status,omitempty"`
}

// CheckInOut records the next attendance event for the actor on the given
// date. The first call on a working day checks in, the second checks out,
// any further call does nothing. Punching on a holiday or weekend is a
// silent no-op rather than an error. Only today's date is accepted.
func (s *AttendanceService) CheckInOut(ctx context.Context, actor models.JWTClaims, date time.Time) (*AttendanceOutcome, error) {
	now := s.now().UTC()
	day := normalizeDate(date)
	if date.IsZero() {
		day = normalizeDate(now)
	}
	if !day.Equal(normalizeDate(now)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendance can only be recorded for today")
	}

	off, _, err := s.calendar.IsHoliday(ctx, day)
	if err != nil {
		return nil, err
	}
	if off {
		s.metrics.RecordAttendanceEvent(string(AttendanceActionHoliday))
		return &AttendanceOutcome{Action: AttendanceActionHoliday}, nil
	}

	existing, err := s.repo.FindByPersonAndDate(ctx, actor.UserID, day)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
		}
		checkIn := now
		record, err := s.repo.Create(ctx, &models.AttendanceRecord{PersonID: actor.UserID, Date: day, CheckIn: &checkIn})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance record")
		}
		s.afterMutation(ctx, actor.UserID, AttendanceActionCheckedIn)
		return &AttendanceOutcome{
			Action: AttendanceActionCheckedIn,
			Record: record,
			Status: record.Status(s.cfg.FullDayMinutes, s.cfg.HalfDayMinutes),
		}, nil
	}

	if existing.CheckOut == nil {
		record, err := s.repo.SetCheckOut(ctx, existing.ID, now)
		if err != nil {
			// A concurrent punch may have closed the record first.
			if errors.Is(err, sql.ErrNoRows) {
				return s.noop(ctx, actor.UserID, day)
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record check-out")
		}
		s.afterMutation(ctx, actor.UserID, AttendanceActionCheckedOut)
		return &AttendanceOutcome{
			Action: AttendanceActionCheckedOut,
			Record: record,
			Status: record.Status(s.cfg.FullDayMinutes, s.cfg.HalfDayMinutes),
		}, nil
	}

	s.metrics.RecordAttendanceEvent(string(AttendanceActionNone))
	return &AttendanceOutcome{
		Action: AttendanceActionNone,
		Record: existing,
		Status: existing.Status(s.cfg.FullDayMinutes, s.cfg.HalfDayMinutes),
	}, nil
}

func (s *AttendanceService) noop(ctx context.Context, personID string, day time.Time) (*AttendanceOutcome, error) {
	record, err := s.repo.FindByPersonAndDate(ctx, personID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload attendance record")
	}
	s.metrics.RecordAttendanceEvent(string(AttendanceActionNone))
	return &AttendanceOutcome{
		Action: AttendanceActionNone,
		Record: record,
		Status: record.Status(s.cfg.FullDayMinutes, s.cfg.HalfDayMinutes),
	}, nil
}

// TodayStatus returns the actor's record for today, if any.
func (s *AttendanceService) TodayStatus(ctx context.Context, actor models.JWTClaims) (*AttendanceOutcome, error) {
	day := normalizeDate(s.now().UTC())
	off, _, err := s.calendar.IsHoliday(ctx, day)
	if err != nil {
		return nil, err
	}
	if off {
		return &AttendanceOutcome{Action: AttendanceActionHoliday}, nil
	}
	record, err := s.repo.FindByPersonAndDate(ctx, actor.UserID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &AttendanceOutcome{Action: AttendanceActionNone}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	return &AttendanceOutcome{
		Action: AttendanceActionNone,
		Record: record,
		Status: record.Status(s.cfg.FullDayMinutes, s.cfg.HalfDayMinutes),
	}, nil
}

// AttendanceListRequest describes filters for listing attendance rows.
type AttendanceListRequest struct {
	PersonID  string     `json:"person_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
	SortBy    string     `json:"sort_by"`
	SortOrder string     `json:"sort_order"`
}

// AttendanceListItem decorates a stored row with its derived status.
type AttendanceListItem struct {
	models.AttendanceRow
	DurationMinutes int                     `json:"duration_minutes"`
	DerivedStatus   models.AttendanceStatus `json:"derived_status"`
}

// List returns attendance rows. Employees only ever see their own ledger,
// manager roles may scope to any person.
func (s *AttendanceService) List(ctx context.Context, actor models.JWTClaims, req AttendanceListRequest) ([]AttendanceListItem, *models.Pagination, error) {
	filter := models.AttendanceFilter{
		PersonID:  req.PersonID,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if !actor.Role.Manager() {
		filter.PersonID = actor.UserID
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	items := make([]AttendanceListItem, len(rows))
	for i, row := range rows {
		items[i] = AttendanceListItem{
			AttendanceRow:   row,
			DurationMinutes: row.DurationMinutes(),
			DerivedStatus:   row.Status(s.cfg.FullDayMinutes, s.cfg.HalfDayMinutes),
		}
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return items, pagination, nil
}

func (s *AttendanceService) afterMutation(ctx context.Context, personID string, action AttendanceAction) {
	s.metrics.RecordAttendanceEvent(string(action))
	_ = s.cache.InvalidatePerson(ctx, personID)
}
