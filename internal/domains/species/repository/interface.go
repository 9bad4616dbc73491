package repository

import (
	"context"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/species/model"
)

// Scan narrows a species listing inside the store. A nil field imposes
// no constraint.
type Scan struct {
	EcosystemID        *uuid.UUID
	Type               *model.Type
	ConservationStatus *model.ConservationStatus
	IsApproved         *bool
}

// Matches reports whether s satisfies every set field
func (f Scan) Matches(s *model.Species) bool {
	switch {
	case f.EcosystemID != nil && s.EcosystemID != *f.EcosystemID:
		return false
	case f.Type != nil && s.Type != *f.Type:
		return false
	case f.ConservationStatus != nil && s.ConservationStatus != *f.ConservationStatus:
		return false
	case f.IsApproved != nil && s.IsApproved != *f.IsApproved:
		return false
	}
	return true
}

// =====================================================
// SPECIES REPOSITORY INTERFACE
// =====================================================

type Repository interface {
	// Create inserts s and fills s.EcosystemName from the referenced
	// ecosystem in the same write. Returns model.ErrEcosystemNotFound when
	// the reference dangles.
	Create(ctx context.Context, s *model.Species) error

	// GetByID returns model.ErrSpeciesNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*model.Species, error)

	// UpdateIfApproval replaces the stored record only if its is_approved
	// flag equals expected, refreshing s.EcosystemName. Returns
	// model.ErrStale when the flag differs.
	UpdateIfApproval(ctx context.Context, s *model.Species, expected bool) error

	// DeleteIfApproval removes the record only if is_approved equals expected
	DeleteIfApproval(ctx context.Context, id uuid.UUID, expected bool) error

	// Delete removes the record unconditionally
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the species matching scan in insertion order
	List(ctx context.Context, scan Scan) ([]*model.Species, error)
}
