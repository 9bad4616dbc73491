package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/shared/utils"
)

const (
	MaxNameLength = 255
)

// ProtectedFields can never be written through an owner update
var ProtectedFields = []string{
	"id", "owner_id", "user_id",
	"is_approved", "ecosystem_name",
	"created_at", "updated_at",
}

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateSpeciesRequest request to submit a species. There is no approval
// field: new user records always start unapproved.
type CreateSpeciesRequest struct {
	Name               string             `json:"name"`
	ScientificName     string             `json:"scientific_name"`
	Image              *string            `json:"image"`
	Habitat            string             `json:"habitat"`
	Diet               string             `json:"diet"`
	FunFact            string             `json:"fun_fact"`
	ConservationStatus ConservationStatus `json:"conservation_status"`
	Type               Type               `json:"type"`
	EcosystemID        uuid.UUID          `json:"ecosystem_id"`
	Region             *string            `json:"region"`
	Sound              *string            `json:"sound"`
}

// Normalize trims the free-text fields so blank input fails validation
func (r *CreateSpeciesRequest) Normalize() {
	utils.TrimFields(&r.Name, &r.ScientificName, &r.Habitat, &r.Diet, &r.FunFact)
}

func (r CreateSpeciesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.ScientificName, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Habitat, validation.Required),
		validation.Field(&r.Diet, validation.Required),
		validation.Field(&r.FunFact, validation.Required),
		validation.Field(&r.ConservationStatus, validation.Required, validation.In(ConservationStatuses...)),
		validation.Field(&r.Type, validation.Required, validation.In(Types...)),
		validation.Field(&r.EcosystemID, validation.By(requiredUUID)),
	)
}

// UpdateSpeciesRequest lists exactly the owner-editable fields.
// A nil field is left unchanged.
type UpdateSpeciesRequest struct {
	Name               *string             `json:"name"`
	ScientificName     *string             `json:"scientific_name"`
	Image              *string             `json:"image"`
	Habitat            *string             `json:"habitat"`
	Diet               *string             `json:"diet"`
	FunFact            *string             `json:"fun_fact"`
	ConservationStatus *ConservationStatus `json:"conservation_status"`
	Type               *Type               `json:"type"`
	EcosystemID        *uuid.UUID          `json:"ecosystem_id"`
	Region             *string             `json:"region"`
	Sound              *string             `json:"sound"`
}

// Normalize trims the free-text fields that are present
func (r *UpdateSpeciesRequest) Normalize() {
	utils.TrimFields(r.Name, r.ScientificName, r.Habitat, r.Diet, r.FunFact)
}

func (r UpdateSpeciesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, MaxNameLength)),
		validation.Field(&r.ScientificName, validation.NilOrNotEmpty, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Habitat, validation.NilOrNotEmpty),
		validation.Field(&r.Diet, validation.NilOrNotEmpty),
		validation.Field(&r.FunFact, validation.NilOrNotEmpty),
		validation.Field(&r.ConservationStatus, validation.NilOrNotEmpty, validation.In(ConservationStatuses...)),
		validation.Field(&r.Type, validation.NilOrNotEmpty, validation.In(Types...)),
		validation.Field(&r.EcosystemID, validation.By(requiredUUID)),
	)
}

// DecodeUpdateSpeciesRequest decodes a raw update body, rejecting
// protected and unknown fields
func DecodeUpdateSpeciesRequest(data []byte) (UpdateSpeciesRequest, error) {
	var req UpdateSpeciesRequest
	if err := utils.DecodeStrict(data, &req, ProtectedFields...); err != nil {
		return UpdateSpeciesRequest{}, NewValidationError(err)
	}
	return req, nil
}

// ChangesEcosystem reports whether the update moves s to another ecosystem
func (r UpdateSpeciesRequest) ChangesEcosystem(s *Species) bool {
	return r.EcosystemID != nil && *r.EcosystemID != s.EcosystemID
}

// Apply returns a copy of s with the request's fields written. The
// ecosystem name copy is refreshed by the store.
func (r UpdateSpeciesRequest) Apply(s *Species) *Species {
	next := s.Clone()
	setString(&next.Name, r.Name)
	setString(&next.ScientificName, r.ScientificName)
	setString(&next.Habitat, r.Habitat)
	setString(&next.Diet, r.Diet)
	setString(&next.FunFact, r.FunFact)
	if r.Image != nil {
		next.Image = cloneString(r.Image)
	}
	if r.ConservationStatus != nil {
		next.ConservationStatus = *r.ConservationStatus
	}
	if r.Type != nil {
		next.Type = *r.Type
	}
	if r.EcosystemID != nil {
		next.EcosystemID = *r.EcosystemID
	}
	if r.Region != nil {
		next.Region = cloneString(r.Region)
	}
	if r.Sound != nil {
		next.Sound = cloneString(r.Sound)
	}
	return next
}

// Approval selects approved or pending records in listings
type Approval string

const (
	ApprovalApproved Approval = "approved"
	ApprovalPending  Approval = "pending"
)

// ListFilter narrows species listings. Unset fields impose no constraint.
type ListFilter struct {
	EcosystemID        *uuid.UUID
	Type               *Type
	ConservationStatus *ConservationStatus
	Approval           *Approval

	// Ecosystem is an ecosystem id, slug or name. The service resolves
	// ids and slugs; anything else is compared to the name copy.
	Ecosystem string

	// Text is matched against name, scientific name, habitat and type
	Text string
}

func (f ListFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Type, validation.NilOrNotEmpty, validation.In(Types...)),
		validation.Field(&f.ConservationStatus, validation.NilOrNotEmpty, validation.In(ConservationStatuses...)),
		validation.Field(&f.Approval, validation.NilOrNotEmpty, validation.In(ApprovalApproved, ApprovalPending)),
	)
}

// IsApproved converts the approval filter into the stored flag
func (a Approval) IsApproved() bool {
	return a == ApprovalApproved
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func requiredUUID(value interface{}) error {
	switch v := value.(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return validation.ErrRequired
		}
	case *uuid.UUID:
		if v != nil && *v == uuid.Nil {
			return validation.ErrRequired
		}
	}
	return nil
}
