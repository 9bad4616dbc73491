package model

import (
	"encoding/json"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/shared/utils"
)

const (
	MaxTitleLength = 255
)

// ProtectedFields can never be written through an owner update
var ProtectedFields = []string{
	"id", "owner_id", "user_id",
	"status", "admin_notes",
	"approver_id", "approved_by", "approved_at",
	"created_at", "updated_at",
}

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateContributionRequest request to submit a contribution
type CreateContributionRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Kind        Kind            `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	Image       *string         `json:"image"`
	Location    *string         `json:"location"`
}

// Normalize trims the free-text fields so blank input fails validation
func (r *CreateContributionRequest) Normalize() {
	utils.TrimFields(&r.Title, &r.Description)
}

func (r CreateContributionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Kind, validation.Required, validation.In(Kinds...)),
		validation.Field(&r.Payload, validation.By(structuredPayload)),
	)
}

// UpdateContributionRequest lists exactly the owner-editable fields.
// A nil field is left unchanged. Payload "null" clears the payload.
type UpdateContributionRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Kind        *Kind           `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	Image       *string         `json:"image"`
	Location    *string         `json:"location"`
}

// Normalize trims the free-text fields that are present
func (r *UpdateContributionRequest) Normalize() {
	utils.TrimFields(r.Title, r.Description)
}

func (r UpdateContributionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Description, validation.NilOrNotEmpty),
		validation.Field(&r.Kind, validation.NilOrNotEmpty, validation.In(Kinds...)),
		validation.Field(&r.Payload, validation.By(structuredPayload)),
	)
}

// DecodeUpdateContributionRequest decodes a raw update body, rejecting
// protected and unknown fields
func DecodeUpdateContributionRequest(data []byte) (UpdateContributionRequest, error) {
	var req UpdateContributionRequest
	if err := utils.DecodeStrict(data, &req, ProtectedFields...); err != nil {
		return UpdateContributionRequest{}, NewValidationError(err)
	}
	return req, nil
}

// Apply returns a copy of c with the request's fields written
func (r UpdateContributionRequest) Apply(c *Contribution) *Contribution {
	next := c.Clone()
	if r.Title != nil {
		next.Title = *r.Title
	}
	if r.Description != nil {
		next.Description = *r.Description
	}
	if r.Kind != nil {
		next.Kind = *r.Kind
	}
	if r.Payload != nil {
		if string(r.Payload) == "null" {
			next.Payload = nil
		} else {
			next.Payload = append(json.RawMessage(nil), r.Payload...)
		}
	}
	if r.Image != nil {
		next.Image = cloneString(r.Image)
	}
	if r.Location != nil {
		next.Location = cloneString(r.Location)
	}
	return next
}

// RejectContributionRequest admin request to reject
type RejectContributionRequest struct {
	AdminNotes *string `json:"admin_notes"`
}

// ListFilter narrows contribution listings
type ListFilter struct {
	Status *Status `form:"status"`
	Kind   *Kind   `form:"kind"`

	// OwnerID restricts the listing to one owner. Non-admin callers are
	// always restricted to themselves.
	OwnerID *uuid.UUID `form:"-"`
}

func (f ListFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, validation.NilOrNotEmpty, validation.In(Statuses...)),
		validation.Field(&f.Kind, validation.NilOrNotEmpty, validation.In(Kinds...)),
	)
}

// structuredPayload accepts an absent payload, null, a JSON object or a JSON array
func structuredPayload(value interface{}) error {
	payload, _ := value.(json.RawMessage)
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return errors.New("must be valid JSON")
	}
	switch decoded.(type) {
	case map[string]interface{}, []interface{}:
		return nil
	default:
		return errors.New("must be a JSON object or array")
	}
}
