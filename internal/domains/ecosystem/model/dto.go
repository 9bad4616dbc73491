package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	speciesmodel "wildlife-catalog-backend/internal/domains/species/model"
	"wildlife-catalog-backend/internal/shared/utils"
)

const (
	MaxNameLength = 255
)

// ProtectedFields are derived or system-managed
var ProtectedFields = []string{"id", "slug", "created_at", "updated_at"}

// CreateEcosystemRequest admin request to add an ecosystem
type CreateEcosystemRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Image           *string  `json:"image"`
	Characteristics []string `json:"characteristics"`
}

// Normalize trims the name, description and each characteristic
func (r *CreateEcosystemRequest) Normalize() {
	utils.TrimFields(&r.Name, &r.Description)
	for i := range r.Characteristics {
		utils.TrimFields(&r.Characteristics[i])
	}
}

func (r CreateEcosystemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Characteristics, validation.Each(validation.Required)),
	)
}

// UpdateEcosystemRequest admin request to edit an ecosystem. A nil field
// is left unchanged; a rename does not change the slug.
type UpdateEcosystemRequest struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Image           *string   `json:"image"`
	Characteristics *[]string `json:"characteristics"`
}

func (r *UpdateEcosystemRequest) Normalize() {
	utils.TrimFields(r.Name, r.Description)
	if r.Characteristics != nil {
		for i := range *r.Characteristics {
			utils.TrimFields(&(*r.Characteristics)[i])
		}
	}
}

func (r UpdateEcosystemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Description, validation.NilOrNotEmpty),
		validation.Field(&r.Characteristics, validation.By(func(value interface{}) error {
			list, _ := value.(*[]string)
			if list == nil {
				return nil
			}
			return validation.Validate(*list, validation.Each(validation.Required))
		})),
	)
}

// DecodeUpdateEcosystemRequest decodes a raw update body, rejecting
// protected and unknown fields
func DecodeUpdateEcosystemRequest(data []byte) (UpdateEcosystemRequest, error) {
	var req UpdateEcosystemRequest
	if err := utils.DecodeStrict(data, &req, ProtectedFields...); err != nil {
		return UpdateEcosystemRequest{}, NewValidationError(err)
	}
	return req, nil
}

// Apply returns a copy of e with the request's fields written
func (r UpdateEcosystemRequest) Apply(e *Ecosystem) *Ecosystem {
	next := e.Clone()
	if r.Name != nil {
		next.Name = *r.Name
	}
	if r.Description != nil {
		next.Description = *r.Description
	}
	if r.Image != nil {
		image := *r.Image
		next.Image = &image
	}
	if r.Characteristics != nil {
		next.Characteristics = append([]string{}, (*r.Characteristics)...)
	}
	return next
}

// EcosystemDetail is an ecosystem with the species the caller may see
type EcosystemDetail struct {
	*Ecosystem
	Species []*speciesmodel.Species `json:"species"`
}
