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

type employeeService interface {
	List(ctx context.Context, req service.EmployeeListRequest) ([]models.Employee, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, req service.CreateEmployeeRequest) (*models.Employee, error)
	Update(ctx context.Context, id string, req service.UpdateEmployeeRequest) (*models.Employee, error)
	Archive(ctx context.Context, actor models.JWTClaims, id string) error
	Restore(ctx context.Context, id string) error
	ListArchived(ctx context.Context) ([]models.ArchivedEmployee, error)
	PurgeArchived(ctx context.Context, id string) error
}

// EmployeeHandler exposes the directory endpoints.
type EmployeeHandler struct {
	service employeeService
}

// NewEmployeeHandler builds a new handler.
func NewEmployeeHandler(service employeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List handles GET /employees.
func (h *EmployeeHandler) List(c *gin.Context) {
	req := service.EmployeeListRequest{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		req.Role = &role
	}
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))

	employees, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, pagination)
}

// Get handles GET /employees/:id.
func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emp, nil)
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	emp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, emp)
}

// Update handles PUT /employees/:id.
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	emp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emp, nil)
}

// Archive handles DELETE /employees/:id. The record moves to the archive
// table instead of being removed.
func (h *EmployeeHandler) Archive(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Archive(c.Request.Context(), *claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore handles POST /employees/:id/restore.
func (h *EmployeeHandler) Restore(c *gin.Context) {
	if err := h.service.Restore(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListArchived handles GET /employees/archived.
func (h *EmployeeHandler) ListArchived(c *gin.Context) {
	list, err := h.service.ListArchived(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// PurgeArchived handles DELETE /employees/archived/:id.
func (h *EmployeeHandler) PurgeArchived(c *gin.Context) {
	if err := h.service.PurgeArchived(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
