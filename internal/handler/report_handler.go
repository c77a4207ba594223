package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrms-suite/ledger-api/internal/middleware"
	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/internal/service"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
	"github.com/hrms-suite/ledger-api/pkg/response"
)

type reportService interface {
	MonthlyStats(ctx context.Context, actor models.JWTClaims, personID string, month, year int) (*models.MonthlyStats, bool, error)
	ExportMonthly(ctx context.Context, actor models.JWTClaims, personID string, month, year int, format service.ExportFormat) (*service.MonthlyExport, error)
}

// ReportHandler exposes the monthly aggregation endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler builds a new handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func monthYearFromQuery(c *gin.Context) (int, int, error) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "month is required")
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "year is required")
	}
	return month, year, nil
}

// Monthly handles GET /reports/monthly.
func (h *ReportHandler) Monthly(c *gin.Context) {
	month, year, err := monthYearFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	claims := claimsFromContext(c)
	stats, cached, err := h.service.MonthlyStats(c.Request.Context(), *claims, c.Query("person_id"), month, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}

// Export handles GET /reports/monthly/export.
func (h *ReportHandler) Export(c *gin.Context) {
	month, year, err := monthYearFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	claims := claimsFromContext(c)
	result, err := h.service.ExportMonthly(c.Request.Context(), *claims, c.Query("person_id"), month, year, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
