package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/internal/service"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
	"github.com/hrms-suite/ledger-api/pkg/response"
)

type policyService interface {
	List(ctx context.Context) ([]models.LeavePolicy, error)
	Get(ctx context.Context, id string) (*models.LeavePolicy, error)
	Create(ctx context.Context, actor models.JWTClaims, req service.PolicyRequest) (*models.LeavePolicy, error)
	Update(ctx context.Context, actor models.JWTClaims, id string, req service.PolicyRequest) (*models.LeavePolicy, error)
	Delete(ctx context.Context, actor models.JWTClaims, id string) error
}

// PolicyHandler exposes leave policy documents.
type PolicyHandler struct {
	service policyService
}

// NewPolicyHandler builds a new handler.
func NewPolicyHandler(service policyService) *PolicyHandler {
	return &PolicyHandler{service: service}
}

// List handles GET /policies.
func (h *PolicyHandler) List(c *gin.Context) {
	policies, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, policies, nil)
}

// Get handles GET /policies/:id.
func (h *PolicyHandler) Get(c *gin.Context) {
	policy, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, policy, nil)
}

// Create handles POST /policies.
func (h *PolicyHandler) Create(c *gin.Context) {
	var req service.PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid policy payload"))
		return
	}
	claims := claimsFromContext(c)
	policy, err := h.service.Create(c.Request.Context(), *claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, policy)
}

// Update handles PUT /policies/:id.
func (h *PolicyHandler) Update(c *gin.Context) {
	var req service.PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid policy payload"))
		return
	}
	claims := claimsFromContext(c)
	policy, err := h.service.Update(c.Request.Context(), *claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, policy, nil)
}

// Delete handles DELETE /policies/:id.
func (h *PolicyHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Delete(c.Request.Context(), *claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
