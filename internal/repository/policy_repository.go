package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hrms-suite/ledger-api/internal/models"
)

// PolicyRepository handles persistence for leave policy documents.
type PolicyRepository struct {
	db *sqlx.DB
}

// NewPolicyRepository constructs the repository.
func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

const policyColumns = "id, title, body, category, created_by, created_at, updated_at"

// List returns all policies, newest first.
func (r *PolicyRepository) List(ctx context.Context) ([]models.LeavePolicy, error) {
	query := fmt.Sprintf("SELECT %s FROM leave_policies ORDER BY created_at DESC", policyColumns)
	var policies []models.LeavePolicy
	if err := r.db.SelectContext(ctx, &policies, query); err != nil {
		return nil, fmt.Errorf("list leave policies: %w", err)
	}
	return policies, nil
}

// GetByID fetches a single policy.
func (r *PolicyRepository) GetByID(ctx context.Context, id string) (*models.LeavePolicy, error) {
	query := fmt.Sprintf("SELECT %s FROM leave_policies WHERE id = $1", policyColumns)
	var policy models.LeavePolicy
	if err := r.db.GetContext(ctx, &policy, query, id); err != nil {
		return nil, err
	}
	return &policy, nil
}

// Create inserts a new policy.
func (r *PolicyRepository) Create(ctx context.Context, policy *models.LeavePolicy) error {
	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	policy.CreatedAt = now
	policy.UpdatedAt = now
	query := `INSERT INTO leave_policies (id, title, body, category, created_by, created_at, updated_at)
VALUES (:id, :title, :body, :category, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, policy); err != nil {
		return fmt.Errorf("create leave policy: %w", err)
	}
	return nil
}

// Update rewrites the policy content.
func (r *PolicyRepository) Update(ctx context.Context, policy *models.LeavePolicy) error {
	policy.UpdatedAt = time.Now().UTC()
	query := `UPDATE leave_policies SET title = :title, body = :body, category = :category, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, policy); err != nil {
		return fmt.Errorf("update leave policy: %w", err)
	}
	return nil
}

// Delete removes a policy.
func (r *PolicyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM leave_policies WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete leave policy: %w", err)
	}
	return nil
}
