package service

import (
	"context"

	"github.com/google/uuid"

	ecosystemmodel "wildlife-catalog-backend/internal/domains/ecosystem/model"
	"wildlife-catalog-backend/internal/domains/policy"
	"wildlife-catalog-backend/internal/domains/species/model"
)

// =====================================================
// SPECIES SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// Create submits a species owned by the caller, always unapproved
	Create(ctx context.Context, caller *policy.Caller, req model.CreateSpeciesRequest) (*model.Species, error)

	// Get returns an approved species, or an unapproved one to its owner
	Get(ctx context.Context, caller *policy.Caller, id uuid.UUID) (*model.Species, error)

	// List returns the visible species matching every supplied filter and
	// the free-text query, in store order
	List(ctx context.Context, caller *policy.Caller, filter model.ListFilter) ([]*model.Species, error)

	// Update edits an unapproved species
	Update(ctx context.Context, caller *policy.Caller, id uuid.UUID, req model.UpdateSpeciesRequest) (*model.Species, error)

	// Delete removes an unapproved species (any species for admins)
	Delete(ctx context.Context, caller *policy.Caller, id uuid.UUID) error

	// Approve publishes a species. Approving twice is not an error.
	Approve(ctx context.Context, caller *policy.Caller, id uuid.UUID) (*model.Species, error)
}

// EcosystemLookup resolves species ecosystem references
type EcosystemLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ecosystemmodel.Ecosystem, error)
	GetBySlug(ctx context.Context, slug string) (*ecosystemmodel.Ecosystem, error)
}
