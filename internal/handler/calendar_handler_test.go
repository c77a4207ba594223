package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-suite/ledger-api/internal/middleware"
	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/internal/service"
)

type calendarServiceMock struct {
	workingDays models.WorkingDaySet
	classifyAs  service.DayKind
	lastWeekday int
}

func (m *calendarServiceMock) ListHolidays(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error) {
	return []models.Holiday{}, nil
}

func (m *calendarServiceMock) AddHoliday(ctx context.Context, actor models.JWTClaims, req service.AddHolidayRequest) (*models.Holiday, error) {
	return &models.Holiday{ID: "hol-1", Date: req.Date, Name: req.Name}, nil
}

func (m *calendarServiceMock) ToggleHoliday(ctx context.Context, actor models.JWTClaims, date time.Time) (*service.ToggleHolidayResult, error) {
	return &service.ToggleHolidayResult{Date: date, Toggled: true}, nil
}

func (m *calendarServiceMock) WorkingDays(ctx context.Context) (models.WorkingDaySet, error) {
	return m.workingDays, nil
}

func (m *calendarServiceMock) ToggleWorkingDay(ctx context.Context, actor models.JWTClaims, weekday int) (models.WorkingDaySet, error) {
	m.lastWeekday = weekday
	return m.workingDays.Toggle(weekday), nil
}

func (m *calendarServiceMock) Classify(ctx context.Context, date time.Time) (service.DayKind, *models.Holiday, error) {
	return m.classifyAs, nil, nil
}

func newCalendarTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "hr-1", Role: models.RoleHR})
	return c, w
}

func TestCalendarHandlerClassifyDayBadDate(t *testing.T) {
	handler := NewCalendarHandler(&calendarServiceMock{})
	c, w := newCalendarTestContext(t, http.MethodGet, "/calendar/days/yesterday", "")
	c.Params = gin.Params{{Key: "date", Value: "yesterday"}}

	handler.ClassifyDay(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarHandlerClassifyDaySuccess(t *testing.T) {
	handler := NewCalendarHandler(&calendarServiceMock{classifyAs: service.DayKindWeekend})
	c, w := newCalendarTestContext(t, http.MethodGet, "/calendar/days/2026-03-07", "")
	c.Params = gin.Params{{Key: "date", Value: "2026-03-07"}}

	handler.ClassifyDay(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"2026-03-07"`)
	assert.Contains(t, w.Body.String(), string(service.DayKindWeekend))
}

func TestCalendarHandlerToggleWorkingDayMissingWeekday(t *testing.T) {
	handler := NewCalendarHandler(&calendarServiceMock{workingDays: models.DefaultWorkingDays()})
	c, w := newCalendarTestContext(t, http.MethodPost, "/calendar/working-days/toggle", `{}`)

	handler.ToggleWorkingDay(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarHandlerToggleWorkingDayZeroWeekday(t *testing.T) {
	mock := &calendarServiceMock{workingDays: models.DefaultWorkingDays()}
	handler := NewCalendarHandler(mock)
	c, w := newCalendarTestContext(t, http.MethodPost, "/calendar/working-days/toggle", `{"weekday":0}`)

	handler.ToggleWorkingDay(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, mock.lastWeekday)
	assert.Contains(t, w.Body.String(), `"working_days"`)
}
