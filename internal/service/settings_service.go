package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrms-suite/ledger-api/internal/models"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

// SettingsService manages the single organization settings row.
type SettingsService struct {
	repo      settingsReader
	cache     *ReportCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo settingsReader, cache *ReportCache, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// SettingsRequest is the update payload. Working days are managed through
// the calendar endpoints, not here.
type SettingsRequest struct {
	SiteName string `json:"site_name" validate:"required"`
	Tagline  string `json:"tagline"`
	LogoURL  string `json:"logo_url" validate:"omitempty,url"`
}

// Get returns the current settings, falling back to defaults when nothing
// has been saved yet.
func (s *SettingsService) Get(ctx context.Context) (*models.OrgSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// Update saves the display settings. Admin only.
func (s *SettingsService) Update(ctx context.Context, actor models.JWTClaims, req SettingsRequest) (*models.OrgSettings, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admin may change organization settings")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings.SiteName = req.SiteName
	settings.Tagline = req.Tagline
	settings.LogoURL = req.LogoURL
	settings.UpdatedBy = &actor.UserID
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.logger.Info("organization settings updated", zap.String("by", actor.UserID))
	return settings, nil
}
