package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrms-suite/ledger-api/internal/models"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, emp *models.Employee) error
	Update(ctx context.Context, emp *models.Employee) error
	Archive(ctx context.Context, id, archivedBy string) error
	Restore(ctx context.Context, id string) error
	ListArchived(ctx context.Context) ([]models.ArchivedEmployee, error)
	DeleteArchived(ctx context.Context, id string) error
}

// EmployeeService manages the organization directory.
type EmployeeService struct {
	repo      employeeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(repo employeeRepository, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, validator: validate, logger: logger}
}

// EmployeeListRequest describes directory filters.
type EmployeeListRequest struct {
	Search     string           `json:"search"`
	Department string           `json:"department"`
	Role       *models.UserRole `json:"role"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	SortBy     string           `json:"sort_by"`
	SortOrder  string           `json:"sort_order"`
}

// CreateEmployeeRequest describes the create payload.
type CreateEmployeeRequest struct {
	FullName   string     `json:"full_name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	JobTitle   *string    `json:"job_title"`
	Department *string    `json:"department"`
	Phone      *string    `json:"phone"`
	Salary     *float64   `json:"salary"`
	Role       string     `json:"role" validate:"required"`
	StartDate  *time.Time `json:"start_date"`
}

// UpdateEmployeeRequest describes the update payload.
type UpdateEmployeeRequest struct {
	FullName   string     `json:"full_name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	JobTitle   *string    `json:"job_title"`
	Department *string    `json:"department"`
	Phone      *string    `json:"phone"`
	Salary     *float64   `json:"salary"`
	Role       string     `json:"role" validate:"required"`
	StartDate  *time.Time `json:"start_date"`
}

// List returns directory entries.
func (s *EmployeeService) List(ctx context.Context, req EmployeeListRequest) ([]models.Employee, *models.Pagination, error) {
	filter := models.EmployeeFilter{
		Search:     req.Search,
		Department: req.Department,
		Role:       req.Role,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return employees, pagination, nil
}

// Get returns a directory entry by id.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get employee")
	}
	return emp, nil
}

// Create registers a new employee.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	role := models.UserRole(req.Role)
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
	emp := &models.Employee{
		FullName:   req.FullName,
		Email:      req.Email,
		JobTitle:   req.JobTitle,
		Department: req.Department,
		Phone:      req.Phone,
		Salary:     req.Salary,
		Role:       role,
		StartDate:  req.StartDate,
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return emp, nil
}

// Update modifies a directory entry.
func (s *EmployeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	role := models.UserRole(req.Role)
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	emp.FullName = req.FullName
	emp.Email = req.Email
	emp.JobTitle = req.JobTitle
	emp.Department = req.Department
	emp.Phone = req.Phone
	emp.Salary = req.Salary
	emp.Role = role
	emp.StartDate = req.StartDate
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return emp, nil
}

// Archive moves an employee out of the active directory, preserving the row
// for a later restore.
func (s *EmployeeService) Archive(ctx context.Context, actor models.JWTClaims, id string) error {
	if id == actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot archive your own account")
	}
	if err := s.repo.Archive(ctx, id, actor.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive employee")
	}
	s.logger.Info("employee archived", zap.String("id", id), zap.String("by", actor.UserID))
	return nil
}

// Restore returns an archived employee to the active directory.
func (s *EmployeeService) Restore(ctx context.Context, id string) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "archived employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore employee")
	}
	return nil
}

// ListArchived returns the archive contents.
func (s *EmployeeService) ListArchived(ctx context.Context) ([]models.ArchivedEmployee, error) {
	list, err := s.repo.ListArchived(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list archived employees")
	}
	return list, nil
}

// PurgeArchived permanently deletes an archived row.
func (s *EmployeeService) PurgeArchived(ctx context.Context, id string) error {
	if err := s.repo.DeleteArchived(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete archived employee")
	}
	return nil
}
