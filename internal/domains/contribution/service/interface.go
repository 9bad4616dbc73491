package service

import (
	"context"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/contribution/model"
	"wildlife-catalog-backend/internal/domains/policy"
)

// =====================================================
// CONTRIBUTION SERVICE INTERFACE
// =====================================================
// Every operation receives the caller explicitly; nil means anonymous.

type ServiceInterface interface {
	// ========================================
	// OWNER OPERATIONS
	// ========================================

	// Create submits a new pending contribution owned by the caller
	Create(ctx context.Context, caller *policy.Caller, req model.CreateContributionRequest) (*model.Contribution, error)

	// Get returns one contribution (owner or admin)
	Get(ctx context.Context, caller *policy.Caller, id uuid.UUID) (*model.Contribution, error)

	// List returns the caller's contributions, or all of them for admins,
	// most recent first
	List(ctx context.Context, caller *policy.Caller, filter model.ListFilter) ([]*model.Contribution, error)

	// ListMine returns the caller's own contributions, even for admins
	ListMine(ctx context.Context, caller *policy.Caller, filter model.ListFilter) ([]*model.Contribution, error)

	// Update edits a pending contribution
	Update(ctx context.Context, caller *policy.Caller, id uuid.UUID, req model.UpdateContributionRequest) (*model.Contribution, error)

	// Delete removes a pending contribution (any contribution for admins)
	Delete(ctx context.Context, caller *policy.Caller, id uuid.UUID) error

	// ========================================
	// ADMIN OPERATIONS
	// ========================================

	// Approve moves a pending contribution to approved
	Approve(ctx context.Context, caller *policy.Caller, id uuid.UUID) (*model.Contribution, error)

	// Reject moves a pending contribution to rejected
	Reject(ctx context.Context, caller *policy.Caller, id uuid.UUID, notes *string) (*model.Contribution, error)
}
