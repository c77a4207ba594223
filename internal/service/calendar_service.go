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

type holidayRepository interface {
	List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error)
	FindByDate(ctx context.Context, date time.Time) (*models.Holiday, error)
	Create(ctx context.Context, holiday *models.Holiday) error
	DeleteByDate(ctx context.Context, date time.Time) error
}

type settingsReader interface {
	Get(ctx context.Context) (*models.OrgSettings, error)
	Upsert(ctx context.Context, settings *models.OrgSettings) error
}

// CalendarService owns the holiday table and the working-day set. Every
// other ledger consults it before writing.
type CalendarService struct {
	holidays holidayRepository
	settings settingsReader
	cache    *ReportCache
	cfg      config.LedgerConfig
	logger   *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(holidays holidayRepository, settings settingsReader, cache *ReportCache, cfg config.LedgerConfig, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{holidays: holidays, settings: settings, cache: cache, cfg: cfg, logger: logger}
}

// DayKind is the calendar classification of a single date.
type DayKind string

const (
	DayKindWorking DayKind = "working"
	DayKindWeekend DayKind = "weekend"
	DayKindHoliday DayKind = "holiday"
)

// ToggleHolidayResult reports the outcome of a holiday toggle.
type ToggleHolidayResult struct {
	Date    time.Time       `json:"date"`
	Kind    DayKind         `json:"kind"`
	Toggled bool            `json:"toggled"`
	Entry   *models.Holiday `json:"entry,omitempty"`
}

// normalizeDate strips the time component so every date comparison happens
// at UTC midnight.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WorkingDays returns the current working-day set.
func (s *CalendarService) WorkingDays(ctx context.Context) (models.WorkingDaySet, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working days")
	}
	return settings.WorkingDays, nil
}

// Classify resolves the calendar kind of a date. Weekday membership is
// checked before the holiday table, so a holiday entry on a non-working
// weekday still reads as weekend.
func (s *CalendarService) Classify(ctx context.Context, date time.Time) (DayKind, *models.Holiday, error) {
	date = normalizeDate(date)
	workingDays, err := s.WorkingDays(ctx)
	if err != nil {
		return "", nil, err
	}
	if !workingDays.Contains(int(date.Weekday())) {
		return DayKindWeekend, nil, nil
	}
	holiday, err := s.holidays.FindByDate(ctx, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DayKindWorking, nil, nil
		}
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up holiday")
	}
	return DayKindHoliday, holiday, nil
}

// IsHoliday reports whether the date is off: either its weekday is outside
// the working-day set or an exact-date holiday entry exists.
func (s *CalendarService) IsHoliday(ctx context.Context, date time.Time) (bool, *models.Holiday, error) {
	kind, holiday, err := s.Classify(ctx, date)
	if err != nil {
		return false, nil, err
	}
	return kind != DayKindWorking, holiday, nil
}

// ListHolidays returns holiday entries matching the filter.
func (s *CalendarService) ListHolidays(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error) {
	list, err := s.holidays.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list holidays")
	}
	return list, nil
}

// AddHolidayRequest describes an explicit holiday creation.
type AddHolidayRequest struct {
	Date time.Time          `json:"date" validate:"required"`
	Name string             `json:"name"`
	Kind models.HolidayKind `json:"kind"`
}

// AddHoliday creates a named holiday entry. Manager roles only.
func (s *CalendarService) AddHoliday(ctx context.Context, actor models.JWTClaims, req AddHolidayRequest) (*models.Holiday, error) {
	if !actor.Role.Manager() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only hr or admin may manage holidays")
	}
	if req.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	name := req.Name
	if name == "" {
		name = s.cfg.DefaultHolidayTag
	}
	kind := req.Kind
	if kind == "" {
		kind = models.HolidayKindCompany
	}
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid holiday kind")
	}
	date := normalizeDate(req.Date)
	if _, err := s.holidays.FindByDate(ctx, date); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a holiday already exists on this date")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up holiday")
	}
	holiday := &models.Holiday{Date: date, Name: name, Kind: kind, CreatedBy: actor.UserID}
	if err := s.holidays.Create(ctx, holiday); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create holiday")
	}
	s.invalidateReports(ctx)
	return holiday, nil
}

// ToggleHoliday flips the holiday mark on a date. Toggling a date whose
// weekday is outside the working-day set is a no-op: the day is already off.
// The operation is idempotent in pairs, toggling twice restores the
// original state.
func (s *CalendarService) ToggleHoliday(ctx context.Context, actor models.JWTClaims, date time.Time) (*ToggleHolidayResult, error) {
	if !actor.Role.Manager() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only hr or admin may manage holidays")
	}
	date = normalizeDate(date)
	kind, existing, err := s.Classify(ctx, date)
	if err != nil {
		return nil, err
	}
	switch kind {
	case DayKindWeekend:
		return &ToggleHolidayResult{Date: date, Kind: DayKindWeekend, Toggled: false}, nil
	case DayKindHoliday:
		if err := s.holidays.DeleteByDate(ctx, date); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove holiday")
		}
		s.invalidateReports(ctx)
		s.logger.Info("holiday removed", zap.Time("date", date), zap.String("by", actor.UserID))
		return &ToggleHolidayResult{Date: date, Kind: DayKindWorking, Toggled: true, Entry: existing}, nil
	default:
		holiday := &models.Holiday{
			Date:      date,
			Name:      s.cfg.DefaultHolidayTag,
			Kind:      models.HolidayKindCompany,
			CreatedBy: actor.UserID,
		}
		if err := s.holidays.Create(ctx, holiday); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create holiday")
		}
		s.invalidateReports(ctx)
		s.logger.Info("holiday added", zap.Time("date", date), zap.String("by", actor.UserID))
		return &ToggleHolidayResult{Date: date, Kind: DayKindHoliday, Toggled: true, Entry: holiday}, nil
	}
}

// ToggleWorkingDay flips one weekday in the working-day set and persists the
// result. An empty set is allowed.
func (s *CalendarService) ToggleWorkingDay(ctx context.Context, actor models.JWTClaims, weekday int) (models.WorkingDaySet, error) {
	if !actor.Role.Manager() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only hr or admin may change working days")
	}
	if weekday < 0 || weekday > 6 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weekday must be between 0 and 6")
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	settings.WorkingDays = settings.WorkingDays.Toggle(weekday)
	settings.UpdatedBy = &actor.UserID
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save working days")
	}
	s.invalidateReports(ctx)
	s.logger.Info("working days updated", zap.Ints("working_days", settings.WorkingDays), zap.String("by", actor.UserID))
	return settings.WorkingDays, nil
}

// Calendar changes shift every person's monthly numbers, so the whole
// report cache goes.
func (s *CalendarService) invalidateReports(ctx context.Context) {
	_ = s.cache.InvalidateAll(ctx)
}
