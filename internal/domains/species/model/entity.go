package model

import (
	"time"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/policy"
)

// ConservationStatus follows the IUCN red list categories
type ConservationStatus string

const (
	ConservationLeastConcern   ConservationStatus = "LC"
	ConservationNearThreatened ConservationStatus = "NT"
	ConservationVulnerable     ConservationStatus = "VU"
	ConservationEndangered     ConservationStatus = "EN"
	ConservationCritical       ConservationStatus = "CR"
)

// Type is the broad taxonomic group
type Type string

const (
	TypeMammal    Type = "mammal"
	TypeBird      Type = "bird"
	TypeReptile   Type = "reptile"
	TypeAmphibian Type = "amphibian"
	TypeFish      Type = "fish"
	TypePlant     Type = "plant"
	TypeInsect    Type = "insect"
)

var (
	ConservationStatuses = []interface{}{
		ConservationLeastConcern, ConservationNearThreatened, ConservationVulnerable,
		ConservationEndangered, ConservationCritical,
	}
	Types = []interface{}{
		TypeMammal, TypeBird, TypeReptile, TypeAmphibian, TypeFish, TypePlant, TypeInsect,
	}
)

// Species is a catalog entry.
//
// OwnerID is nil for seeded catalog records, which are always approved.
// EcosystemName is a copy of the referenced ecosystem's name, refreshed on
// every write that touches EcosystemID and on every ecosystem rename.
type Species struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ScientificName string    `json:"scientific_name"`
	Image          *string   `json:"image"`
	Habitat        string    `json:"habitat"`
	Diet           string    `json:"diet"`
	FunFact        string    `json:"fun_fact"`

	ConservationStatus ConservationStatus `json:"conservation_status"`
	Type               Type               `json:"type"`

	EcosystemID   uuid.UUID `json:"ecosystem_id"`
	EcosystemName string    `json:"ecosystem_name"`

	Region *string `json:"region"`
	Sound  *string `json:"sound"`

	OwnerID    *uuid.UUID `json:"owner_id"`
	IsApproved bool       `json:"is_approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy
func (s *Species) Clone() *Species {
	if s == nil {
		return nil
	}
	out := *s
	out.Image = cloneString(s.Image)
	out.Region = cloneString(s.Region)
	out.Sound = cloneString(s.Sound)
	if s.OwnerID != nil {
		id := *s.OwnerID
		out.OwnerID = &id
	}
	return &out
}

// Target exposes the state the authorization policy decides on
func (s *Species) Target() policy.SpeciesTarget {
	return policy.SpeciesTarget{
		OwnerID:    s.OwnerID,
		IsApproved: s.IsApproved,
	}
}

// Approve returns the approved version of s and whether anything changed.
// Approving an approved record is a no-op.
func (s *Species) Approve(now time.Time) (*Species, bool) {
	if s.IsApproved {
		return s.Clone(), false
	}
	next := s.Clone()
	next.IsApproved = true
	next.UpdatedAt = now
	return next, true
}

// TextFields are the fields free-text search looks at
func (s *Species) TextFields() []string {
	return []string{s.Name, s.ScientificName, s.Habitat, string(s.Type)}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
