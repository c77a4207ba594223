package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/pkg/config"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
	"github.com/hrms-suite/ledger-api/pkg/export"
)

type reportCalendar interface {
	WorkingDays(ctx context.Context) (models.WorkingDaySet, error)
	ListHolidays(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error)
}

type reportAttendanceRepository interface {
	ListRange(ctx context.Context, personID string, from, to time.Time) ([]models.AttendanceRecord, error)
}

type reportLeaveRepository interface {
	ListApprovedInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.LeaveRequest, error)
}

// ReportService derives monthly per-person summaries by walking the
// calendar and joining the attendance and leave ledgers. Summaries are
// cached per person-month and invalidated by the writing services.
type ReportService struct {
	calendar   reportCalendar
	attendance reportAttendanceRepository
	leaves     reportLeaveRepository
	cache      *ReportCache
	cfg        config.Config
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(calendar reportCalendar, attendance reportAttendanceRepository, leaves reportLeaveRepository, cache *ReportCache, cfg config.Config, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		calendar:   calendar,
		attendance: attendance,
		leaves:     leaves,
		cache:      cache,
		cfg:        cfg,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// MonthlyStats returns the aggregated month for one person. The second
// return value reports whether the payload came from cache.
func (s *ReportService) MonthlyStats(ctx context.Context, actor models.JWTClaims, personID string, month, year int) (*models.MonthlyStats, bool, error) {
	if personID == "" {
		personID = actor.UserID
	}
	if !actor.Role.Manager() && personID != actor.UserID {
		return nil, false, appErrors.Clone(appErrors.ErrForbidden, "cannot read another person's report")
	}
	if month < 1 || month > 12 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 2000 || year > 2200 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "year out of range")
	}

	key := ReportCacheKey{PersonID: personID, Year: year, Month: month}
	var cached models.MonthlyStats
	if hit, err := s.cache.GetMonthly(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, _, err := s.buildMonth(ctx, personID, month, year)
	if err != nil {
		return nil, false, err
	}
	_ = s.cache.SetMonthly(ctx, key, stats)
	return stats, false, nil
}

// buildMonth walks every calendar day of the month once, classifying it and
// attributing attendance and approved leave.
func (s *ReportService) buildMonth(ctx context.Context, personID string, month, year int) (*models.MonthlyStats, []models.MonthlyDayDetail, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	workingSet, err := s.calendar.WorkingDays(ctx)
	if err != nil {
		return nil, nil, err
	}
	holidays, err := s.calendar.ListHolidays(ctx, models.HolidayFilter{DateFrom: &first, DateTo: &last})
	if err != nil {
		return nil, nil, err
	}
	holidayByDate := make(map[string]models.Holiday, len(holidays))
	for _, h := range holidays {
		holidayByDate[normalizeDate(h.Date).Format("2006-01-02")] = h
	}

	records, err := s.attendance.ListRange(ctx, personID, first, last)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}
	recordByDate := make(map[string]models.AttendanceRecord, len(records))
	for _, rec := range records {
		recordByDate[normalizeDate(rec.Date).Format("2006-01-02")] = rec
	}

	approved, err := s.leaves.ListApprovedInRange(ctx, personID, first, last)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave requests")
	}

	stats := &models.MonthlyStats{PersonID: personID, Month: month, Year: year}
	details := make([]models.MonthlyDayDetail, 0, last.Day())

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		dateKey := day.Format("2006-01-02")
		detail := models.MonthlyDayDetail{Date: dateKey}

		// Approved leave counts on every covered date of the month,
		// independent of the day's classification or attendance.
		onLeave := false
		for _, req := range approved {
			if req.Covers(day) {
				onLeave = true
				break
			}
		}
		if onLeave {
			stats.LeaveDays++
		}

		if !workingSet.Contains(int(day.Weekday())) {
			detail.Kind = string(DayKindWeekend)
			details = append(details, detail)
			continue
		}
		if holiday, ok := holidayByDate[dateKey]; ok {
			stats.HolidayCount++
			detail.Kind = string(DayKindHoliday)
			detail.Status = holiday.Name
			details = append(details, detail)
			continue
		}

		stats.WorkingDays++
		detail.Kind = string(DayKindWorking)

		if rec, ok := recordByDate[dateKey]; ok && rec.CheckIn != nil {
			stats.AttendedDays++
			detail.CheckIn = rec.CheckIn.Format("15:04")
			if rec.CheckOut != nil {
				detail.CheckOut = rec.CheckOut.Format("15:04")
			}
			detail.Status = string(rec.Status(s.cfg.Ledger.FullDayMinutes, s.cfg.Ledger.HalfDayMinutes))
			details = append(details, detail)
			continue
		}

		if onLeave {
			detail.Status = "On Leave"
		} else {
			detail.Status = "Absent"
		}
		details = append(details, detail)
	}

	if stats.WorkingDays > 0 {
		covered := float64(stats.AttendedDays + stats.LeaveDays)
		stats.AttendancePct = int(math.Round(100 * covered / float64(stats.WorkingDays)))
	}
	return stats, details, nil
}

// ExportFormat selects the rendering for a monthly sheet.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// MonthlyExport is a rendered monthly sheet ready for download.
type MonthlyExport struct {
	FileName    string
	ContentType string
	Payload     []byte
}

// ExportMonthly renders one person's month as a downloadable sheet.
func (s *ReportService) ExportMonthly(ctx context.Context, actor models.JWTClaims, personID string, month, year int, format ExportFormat) (*MonthlyExport, error) {
	if !s.cfg.Reports.ExportEnabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report export is disabled")
	}
	if personID == "" {
		personID = actor.UserID
	}
	if !actor.Role.Manager() && personID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot export another person's report")
	}
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}

	stats, details, err := s.buildMonth(ctx, personID, month, year)
	if err != nil {
		return nil, err
	}

	sheet := export.Sheet{
		Title: fmt.Sprintf("Monthly Attendance %d-%02d", year, month),
		Rows:  make([]export.SheetRow, 0, len(details)),
		Totals: export.SheetTotals{
			WorkingDays:   stats.WorkingDays,
			HolidayCount:  stats.HolidayCount,
			AttendedDays:  stats.AttendedDays,
			LeaveDays:     stats.LeaveDays,
			AttendancePct: stats.AttendancePct,
		},
	}
	for _, d := range details {
		sheet.Rows = append(sheet.Rows, export.SheetRow{
			Date:     d.Date,
			Kind:     d.Kind,
			CheckIn:  d.CheckIn,
			CheckOut: d.CheckOut,
			Status:   d.Status,
		})
	}

	base := fmt.Sprintf("attendance-%s-%d-%02d", personID, year, month)
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &MonthlyExport{FileName: base + ".csv", ContentType: "text/csv", Payload: payload}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &MonthlyExport{FileName: base + ".pdf", ContentType: "application/pdf", Payload: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
