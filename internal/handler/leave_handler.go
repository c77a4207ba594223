package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/internal/service"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
	"github.com/hrms-suite/ledger-api/pkg/response"
)

type leaveService interface {
	Create(ctx context.Context, actor models.JWTClaims, sub service.LeaveSubmission) (*models.LeaveRequest, error)
	Get(ctx context.Context, actor models.JWTClaims, id string) (*models.LeaveRequest, error)
	List(ctx context.Context, actor models.JWTClaims, req service.LeaveListRequest) ([]models.LeaveRow, *models.Pagination, error)
	Update(ctx context.Context, actor models.JWTClaims, id string, sub service.LeaveSubmission) (*models.LeaveRequest, error)
	Delete(ctx context.Context, actor models.JWTClaims, id string) error
	SetStatus(ctx context.Context, actor models.JWTClaims, id string, decision service.LeaveDecision) (*models.LeaveRequest, error)
}

// LeaveHandler exposes the leave request lifecycle.
type LeaveHandler struct {
	service leaveService
}

// NewLeaveHandler builds a new handler.
func NewLeaveHandler(service leaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

type leavePayload struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Type   string `json:"type" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

func (p leavePayload) toSubmission() (service.LeaveSubmission, error) {
	sub := service.LeaveSubmission{
		Type:   models.LeaveType(p.Type),
		Reason: p.Reason,
	}
	from, ok := parseDateParam(p.From)
	if !ok {
		return sub, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
	}
	to, ok := parseDateParam(p.To)
	if !ok {
		return sub, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
	}
	sub.From = from
	sub.To = to
	return sub, nil
}

// Create handles POST /leaves.
func (h *LeaveHandler) Create(c *gin.Context) {
	var payload leavePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}
	sub, err := payload.toSubmission()
	if err != nil {
		response.Error(c, err)
		return
	}
	claims := claimsFromContext(c)
	req, err := h.service.Create(c.Request.Context(), *claims, sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, req)
}

// Get handles GET /leaves/:id.
func (h *LeaveHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	req, err := h.service.Get(c.Request.Context(), *claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req, nil)
}

// List handles GET /leaves.
func (h *LeaveHandler) List(c *gin.Context) {
	req := service.LeaveListRequest{
		OwnerID:   c.Query("owner_id"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.LeaveStatus(raw)
		req.Status = &status
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
	rows, pagination, err := h.service.List(c.Request.Context(), *claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Update handles PUT /leaves/:id.
func (h *LeaveHandler) Update(c *gin.Context) {
	var payload leavePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}
	sub, err := payload.toSubmission()
	if err != nil {
		response.Error(c, err)
		return
	}
	claims := claimsFromContext(c)
	req, err := h.service.Update(c.Request.Context(), *claims, c.Param("id"), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req, nil)
}

// Delete handles DELETE /leaves/:id.
func (h *LeaveHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Delete(c.Request.Context(), *claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type decisionPayload struct {
	Status string `json:"status" binding:"required"`
	Remark string `json:"remark"`
}

// SetStatus handles PATCH /leaves/:id/status.
func (h *LeaveHandler) SetStatus(c *gin.Context) {
	var payload decisionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	claims := claimsFromContext(c)
	req, err := h.service.SetStatus(c.Request.Context(), *claims, c.Param("id"), service.LeaveDecision{
		Status: models.LeaveStatus(payload.Status),
		Remark: payload.Remark,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req, nil)
}
