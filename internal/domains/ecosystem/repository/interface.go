package repository

import (
	"context"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/ecosystem/model"
)

// =====================================================
// ECOSYSTEM REPOSITORY INTERFACE
// =====================================================

type Repository interface {
	// Create inserts e. Returns model.ErrSlugTaken when the slug is in use.
	Create(ctx context.Context, e *model.Ecosystem) error

	// GetByID returns model.ErrEcosystemNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ecosystem, error)

	// GetBySlug returns model.ErrEcosystemNotFound when absent
	GetBySlug(ctx context.Context, slug string) (*model.Ecosystem, error)

	// List returns every ecosystem in insertion order
	List(ctx context.Context) ([]*model.Ecosystem, error)

	// Update writes e. A changed name is copied into every species that
	// references e in the same write.
	Update(ctx context.Context, e *model.Ecosystem) error

	// Delete removes the ecosystem and every species referencing it,
	// atomically. Returns how many species were removed.
	Delete(ctx context.Context, id uuid.UUID) (int, error)

	// ExistsBySlug checks slug availability
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
