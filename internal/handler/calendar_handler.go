package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/internal/service"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
	"github.com/hrms-suite/ledger-api/pkg/response"
)

type calendarService interface {
	ListHolidays(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error)
	AddHoliday(ctx context.Context, actor models.JWTClaims, req service.AddHolidayRequest) (*models.Holiday, error)
	ToggleHoliday(ctx context.Context, actor models.JWTClaims, date time.Time) (*service.ToggleHolidayResult, error)
	WorkingDays(ctx context.Context) (models.WorkingDaySet, error)
	ToggleWorkingDay(ctx context.Context, actor models.JWTClaims, weekday int) (models.WorkingDaySet, error)
	Classify(ctx context.Context, date time.Time) (service.DayKind, *models.Holiday, error)
}

// CalendarHandler exposes holiday and working-day endpoints.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler builds a new handler.
func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// ListHolidays handles GET /calendar/holidays.
func (h *CalendarHandler) ListHolidays(c *gin.Context) {
	filter := models.HolidayFilter{}
	if from, ok := parseDateParam(c.Query("from")); ok {
		filter.DateFrom = &from
	}
	if to, ok := parseDateParam(c.Query("to")); ok {
		filter.DateTo = &to
	}
	if raw := c.Query("kind"); raw != "" {
		kind := models.HolidayKind(raw)
		filter.Kind = &kind
	}
	holidays, err := h.service.ListHolidays(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays, nil)
}

type addHolidayPayload struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// AddHoliday handles POST /calendar/holidays.
func (h *CalendarHandler) AddHoliday(c *gin.Context) {
	var payload addHolidayPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid holiday payload"))
		return
	}
	date, ok := parseDateParam(payload.Date)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	claims := claimsFromContext(c)
	holiday, err := h.service.AddHoliday(c.Request.Context(), *claims, service.AddHolidayRequest{
		Date: date,
		Name: payload.Name,
		Kind: models.HolidayKind(payload.Kind),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

type toggleHolidayPayload struct {
	Date string `json:"date" binding:"required"`
}

// ToggleHoliday handles POST /calendar/holidays/toggle.
func (h *CalendarHandler) ToggleHoliday(c *gin.Context) {
	var payload toggleHolidayPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid toggle payload"))
		return
	}
	date, ok := parseDateParam(payload.Date)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	claims := claimsFromContext(c)
	result, err := h.service.ToggleHoliday(c.Request.Context(), *claims, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ClassifyDay handles GET /calendar/days/:date.
func (h *CalendarHandler) ClassifyDay(c *gin.Context) {
	date, ok := parseDateParam(c.Param("date"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	kind, holiday, err := h.service.Classify(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"date":    date.Format(dateLayout),
		"kind":    kind,
		"holiday": holiday,
	}, nil)
}

// GetWorkingDays handles GET /calendar/working-days.
func (h *CalendarHandler) GetWorkingDays(c *gin.Context) {
	set, err := h.service.WorkingDays(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"working_days": set}, nil)
}

type toggleWorkingDayPayload struct {
	Weekday *int `json:"weekday" binding:"required"`
}

// ToggleWorkingDay handles POST /calendar/working-days/toggle.
func (h *CalendarHandler) ToggleWorkingDay(c *gin.Context) {
	var payload toggleWorkingDayPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid toggle payload"))
		return
	}
	claims := claimsFromContext(c)
	set, err := h.service.ToggleWorkingDay(c.Request.Context(), *claims, *payload.Weekday)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"working_days": set}, nil)
}
