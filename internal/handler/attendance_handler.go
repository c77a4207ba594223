package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/internal/service"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
	"github.com/hrms-suite/ledger-api/pkg/response"
)

type attendanceService interface {
	CheckInOut(ctx context.Context, actor models.JWTClaims, date time.Time) (*service.AttendanceOutcome, error)
	TodayStatus(ctx context.Context, actor models.JWTClaims) (*service.AttendanceOutcome, error)
	List(ctx context.Context, actor models.JWTClaims, req service.AttendanceListRequest) ([]service.AttendanceListItem, *models.Pagination, error)
}

// AttendanceHandler exposes the daily punch ledger.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler builds a new handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

type checkPayload struct {
	Date string `json:"date"`
}

// Check handles POST /attendance/check. An empty date means today.
func (h *AttendanceHandler) Check(c *gin.Context) {
	var payload checkPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check payload"))
			return
		}
	}
	var date time.Time
	if payload.Date != "" {
		parsed, ok := parseDateParam(payload.Date)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	claims := claimsFromContext(c)
	outcome, err := h.service.CheckInOut(c.Request.Context(), *claims, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Today handles GET /attendance/today.
func (h *AttendanceHandler) Today(c *gin.Context) {
	claims := claimsFromContext(c)
	outcome, err := h.service.TodayStatus(c.Request.Context(), *claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// List handles GET /attendance.
func (h *AttendanceHandler) List(c *gin.Context) {
	req := service.AttendanceListRequest{
		PersonID:  c.Query("person_id"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if from, ok := parseDateParam(c.Query("from")); ok {
		req.DateFrom = &from
	}
	if to, ok := parseDateParam(c.Query("to")); ok {
		req.DateTo = &to
	}
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))

	claims := claimsFromContext(c)
	items, pagination, err := h.service.List(c.Request.Context(), *claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}
