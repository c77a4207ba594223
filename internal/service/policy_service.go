package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrms-suite/ledger-api/internal/models"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

type policyRepository interface {
	List(ctx context.Context) ([]models.LeavePolicy, error)
	GetByID(ctx context.Context, id string) (*models.LeavePolicy, error)
	Create(ctx context.Context, policy *models.LeavePolicy) error
	Update(ctx context.Context, policy *models.LeavePolicy) error
	Delete(ctx context.Context, id string) error
}

// PolicyService manages the published leave policy documents.
type PolicyService struct {
	repo      policyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPolicyService constructs the service.
func NewPolicyService(repo policyRepository, validate *validator.Validate, logger *zap.Logger) *PolicyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyService{repo: repo, validator: validate, logger: logger}
}

// PolicyRequest is the create/update payload.
type PolicyRequest struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Category string `json:"category"`
}

// List returns all policies.
func (s *PolicyService) List(ctx context.Context) ([]models.LeavePolicy, error) {
	policies, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list policies")
	}
	return policies, nil
}

// Get returns a single policy.
func (s *PolicyService) Get(ctx context.Context, id string) (*models.LeavePolicy, error) {
	policy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "policy not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get policy")
	}
	return policy, nil
}

// Create publishes a new policy. Manager roles only.
func (s *PolicyService) Create(ctx context.Context, actor models.JWTClaims, req PolicyRequest) (*models.LeavePolicy, error) {
	if !actor.Role.Manager() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only hr or admin may manage policies")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	policy := &models.LeavePolicy{
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, policy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create policy")
	}
	return policy, nil
}

// Update rewrites a policy. Manager roles only.
func (s *PolicyService) Update(ctx context.Context, actor models.JWTClaims, id string, req PolicyRequest) (*models.LeavePolicy, error) {
	if !actor.Role.Manager() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only hr or admin may manage policies")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	policy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	policy.Title = req.Title
	policy.Body = req.Body
	policy.Category = req.Category
	if err := s.repo.Update(ctx, policy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update policy")
	}
	return policy, nil
}

// Delete removes a policy. Manager roles only.
func (s *PolicyService) Delete(ctx context.Context, actor models.JWTClaims, id string) error {
	if !actor.Role.Manager() {
		return appErrors.Clone(appErrors.ErrForbidden, "only hr or admin may manage policies")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete policy")
	}
	return nil
}
