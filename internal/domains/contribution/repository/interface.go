package repository

import (
	"context"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/contribution/model"
)

// Scan narrows a contribution listing inside the store. A nil field
// imposes no constraint.
type Scan struct {
	OwnerID *uuid.UUID
	Status  *model.Status
	Kind    *model.Kind
}

// Matches reports whether c satisfies every set field
func (f Scan) Matches(c *model.Contribution) bool {
	switch {
	case f.OwnerID != nil && c.OwnerID != *f.OwnerID:
		return false
	case f.Status != nil && c.Status != *f.Status:
		return false
	case f.Kind != nil && c.Kind != *f.Kind:
		return false
	}
	return true
}

// =====================================================
// CONTRIBUTION REPOSITORY INTERFACE
// =====================================================
// Implementations return copies: callers never share memory with the store.

type Repository interface {
	// Create inserts a new contribution
	Create(ctx context.Context, c *model.Contribution) error

	// GetByID returns model.ErrContributionNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contribution, error)

	// UpdateIfStatus replaces the stored record only if its current status
	// equals expected. Returns model.ErrStale when it does not, and
	// model.ErrContributionNotFound when the record is gone.
	UpdateIfStatus(ctx context.Context, c *model.Contribution, expected model.Status) error

	// DeleteIfStatus removes the record only if its status equals expected
	DeleteIfStatus(ctx context.Context, id uuid.UUID, expected model.Status) error

	// Delete removes the record unconditionally
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the contributions matching scan in insertion order
	List(ctx context.Context, scan Scan) ([]*model.Contribution, error)
}
