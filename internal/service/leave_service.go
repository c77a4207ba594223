package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/pkg/config"
	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

type leaveRepository interface {
	GetByID(ctx context.Context, id string) (*models.LeaveRequest, error)
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRow, int, error)
	ListActiveByOwner(ctx context.Context, ownerID string) ([]models.LeaveRequest, error)
	Create(ctx context.Context, req *models.LeaveRequest) error
	Update(ctx context.Context, req *models.LeaveRequest) error
	UpdateStatus(ctx context.Context, req *models.LeaveRequest) error
	Delete(ctx context.Context, id string) error
}

// LeaveService owns the leave request lifecycle: submission, edits while
// pending, and the single terminal status decision.
type LeaveService struct {
	repo    leaveRepository
	cache   *ReportCache
	metrics *MetricsService
	cfg     config.LedgerConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewLeaveService constructs the service.
func NewLeaveService(repo leaveRepository, cache *ReportCache, metrics *MetricsService, cfg config.LedgerConfig, logger *zap.Logger) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, cache: cache, metrics: metrics, cfg: cfg, logger: logger, now: time.Now}
}

// LeaveSubmission is the payload for creating or editing a request.
type LeaveSubmission struct {
	From   time.Time        `json:"from"`
	To     time.Time        `json:"to"`
	Type   models.LeaveType `json:"type"`
	Reason string           `json:"reason"`
}

// validateSubmission runs the rule chain in a fixed order and returns the
// first failure. Later rules are not evaluated once one fails.
func (s *LeaveService) validateSubmission(sub LeaveSubmission) error {
	today := normalizeDate(s.now().UTC())
	if sub.From.IsZero() {
		return appErrors.Clone(appErrors.ErrMissingField, "from date is required")
	}
	from := normalizeDate(sub.From)
	if from.Before(today) {
		return appErrors.Clone(appErrors.ErrDateInPast, "from date cannot be in the past")
	}
	if from.After(today.AddDate(0, s.cfg.MaxAdvanceMonths, 0)) {
		return appErrors.Clone(appErrors.ErrDateTooFarAhead, fmt.Sprintf("from date cannot be more than %d months ahead", s.cfg.MaxAdvanceMonths))
	}
	if sub.To.IsZero() {
		return appErrors.Clone(appErrors.ErrMissingField, "to date is required")
	}
	to := normalizeDate(sub.To)
	if to.Before(from) {
		return appErrors.Clone(appErrors.ErrRangeInverted, "to date cannot be before from date")
	}
	if models.InclusiveDays(from, to) > s.cfg.MaxLeaveDays {
		return appErrors.Clone(appErrors.ErrDateRangeTooLong, fmt.Sprintf("leave cannot span more than %d days", s.cfg.MaxLeaveDays))
	}
	if !sub.Type.Valid() {
		return appErrors.Clone(appErrors.ErrInvalidType, "invalid leave type")
	}
	reason := strings.TrimSpace(sub.Reason)
	if len(reason) < s.cfg.ReasonMinLength {
		return appErrors.Clone(appErrors.ErrReasonTooShort, fmt.Sprintf("reason must be at least %d characters", s.cfg.ReasonMinLength))
	}
	if len(reason) > s.cfg.ReasonMaxLength {
		return appErrors.Clone(appErrors.ErrReasonTooLong, fmt.Sprintf("reason cannot exceed %d characters", s.cfg.ReasonMaxLength))
	}
	return nil
}

// checkOverlap rejects a range that intersects any of the owner's requests
// that are not Rejected. excludeID skips the request being edited.
func (s *LeaveService) checkOverlap(ctx context.Context, ownerID string, from, to time.Time, excludeID string) error {
	active, err := s.repo.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check for overlapping requests")
	}
	for _, existing := range active {
		if existing.ID == excludeID {
			continue
		}
		if existing.Overlaps(from, to) {
			return appErrors.Clone(appErrors.ErrOverlapConflict, "date range overlaps an existing request")
		}
	}
	return nil
}

// Create submits a new leave request. Admins do not file requests for
// themselves, leave accounting for the admin account lives outside the
// ledger.
func (s *LeaveService) Create(ctx context.Context, actor models.JWTClaims, sub LeaveSubmission) (*models.LeaveRequest, error) {
	if actor.Role == models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin accounts cannot submit leave requests")
	}
	if err := s.validateSubmission(sub); err != nil {
		return nil, err
	}
	from := normalizeDate(sub.From)
	to := normalizeDate(sub.To)
	if err := s.checkOverlap(ctx, actor.UserID, from, to, ""); err != nil {
		return nil, err
	}
	req := &models.LeaveRequest{
		OwnerID:  actor.UserID,
		FromDate: from,
		ToDate:   to,
		Days:     models.InclusiveDays(from, to),
		Type:     sub.Type,
		Reason:   strings.TrimSpace(sub.Reason),
		Status:   models.LeaveStatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}
	s.invalidatePerson(ctx, actor.UserID)
	s.logger.Info("leave request created", zap.String("id", req.ID), zap.String("owner", req.OwnerID), zap.Int("days", req.Days))
	return req, nil
}

// Get returns a single request. Employees may only read their own.
func (s *LeaveService) Get(ctx context.Context, actor models.JWTClaims, id string) (*models.LeaveRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Manager() && req.OwnerID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot read another person's leave request")
	}
	return req, nil
}

// LeaveListRequest describes filters for listing requests.
type LeaveListRequest struct {
	OwnerID   string              `json:"owner_id"`
	Status    *models.LeaveStatus `json:"status"`
	DateFrom  *time.Time          `json:"date_from"`
	DateTo    *time.Time          `json:"date_to"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"page_size"`
	SortBy    string              `json:"sort_by"`
	SortOrder string              `json:"sort_order"`
}

// List returns leave rows. Employees only ever see their own requests.
func (s *LeaveService) List(ctx context.Context, actor models.JWTClaims, req LeaveListRequest) ([]models.LeaveRow, *models.Pagination, error) {
	filter := models.LeaveFilter{
		OwnerID:   req.OwnerID,
		Status:    req.Status,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if !actor.Role.Manager() {
		filter.OwnerID = actor.UserID
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Update edits a pending request. Only the owner may edit, and the edited
// range is re-validated and re-checked for overlap against the owner's
// other requests.
func (s *LeaveService) Update(ctx context.Context, actor models.JWTClaims, id string, sub LeaveSubmission) (*models.LeaveRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owner may edit a leave request")
	}
	if req.Status != models.LeaveStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only pending requests can be edited")
	}
	if err := s.validateSubmission(sub); err != nil {
		return nil, err
	}
	from := normalizeDate(sub.From)
	to := normalizeDate(sub.To)
	if err := s.checkOverlap(ctx, req.OwnerID, from, to, req.ID); err != nil {
		return nil, err
	}
	req.FromDate = from
	req.ToDate = to
	req.Days = models.InclusiveDays(from, to)
	req.Type = sub.Type
	req.Reason = strings.TrimSpace(sub.Reason)
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave request")
	}
	s.invalidatePerson(ctx, req.OwnerID)
	return req, nil
}

// Delete removes a pending request. The owner may withdraw their own,
// manager roles may delete anyone's.
func (s *LeaveService) Delete(ctx context.Context, actor models.JWTClaims, id string) error {
	req, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if req.OwnerID != actor.UserID && !actor.Role.Manager() {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete another person's leave request")
	}
	if req.Status != models.LeaveStatusPending {
		return appErrors.Clone(appErrors.ErrConflict, "only pending requests can be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete leave request")
	}
	s.invalidatePerson(ctx, req.OwnerID)
	return nil
}

// LeaveDecision is the payload for the status transition.
type LeaveDecision struct {
	Status models.LeaveStatus `json:"status"`
	Remark string             `json:"remark"`
}

// SetStatus applies the one terminal transition: Pending to Approved or
// Rejected. Rejection requires a non-empty remark. Deciders cannot rule on
// their own requests.
func (s *LeaveService) SetStatus(ctx context.Context, actor models.JWTClaims, id string, decision LeaveDecision) (*models.LeaveRequest, error) {
	if !actor.Role.Manager() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only hr or admin may decide leave requests")
	}
	if !decision.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be Approved or Rejected")
	}
	remark := strings.TrimSpace(decision.Remark)
	if decision.Status == models.LeaveStatusRejected && remark == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a rejection remark is required")
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.OwnerID == actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot decide your own leave request")
	}
	if req.Status != models.LeaveStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request has already been decided")
	}
	now := s.now().UTC()
	req.Status = decision.Status
	req.StatusUpdatedAt = &now
	req.StatusUpdatedBy = &actor.UserID
	if decision.Status == models.LeaveStatusRejected {
		req.RejectionRemark = &remark
	} else {
		req.RejectionRemark = nil
	}
	if err := s.repo.UpdateStatus(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave status")
	}
	s.metrics.RecordLeaveDecision(string(decision.Status))
	s.invalidatePerson(ctx, req.OwnerID)
	s.logger.Info("leave request decided",
		zap.String("id", req.ID),
		zap.String("status", string(req.Status)),
		zap.String("by", actor.UserID))
	return req, nil
}

func (s *LeaveService) load(ctx context.Context, id string) (*models.LeaveRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	return req, nil
}

func (s *LeaveService) invalidatePerson(ctx context.Context, personID string) {
	_ = s.cache.InvalidatePerson(ctx, personID)
}
