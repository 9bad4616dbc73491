package service

import (
	"context"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/ecosystem/model"
	"wildlife-catalog-backend/internal/domains/policy"
)

// =====================================================
// ECOSYSTEM SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// PUBLIC OPERATIONS
	// ========================================

	// List returns every ecosystem
	List(ctx context.Context) ([]*model.Ecosystem, error)

	// GetBySlug returns one ecosystem with the species visible to caller
	GetBySlug(ctx context.Context, caller *policy.Caller, slug string) (*model.EcosystemDetail, error)

	// ========================================
	// ADMIN OPERATIONS
	// ========================================

	// Create adds an ecosystem and assigns its slug
	Create(ctx context.Context, caller *policy.Caller, req model.CreateEcosystemRequest) (*model.Ecosystem, error)

	// Update edits an ecosystem; renames reach every species name copy
	Update(ctx context.Context, caller *policy.Caller, id uuid.UUID, req model.UpdateEcosystemRequest) (*model.Ecosystem, error)

	// Delete removes an ecosystem and all of its species
	Delete(ctx context.Context, caller *policy.Caller, id uuid.UUID) error
}
