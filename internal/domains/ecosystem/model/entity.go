package model

import (
	"time"

	"github.com/google/uuid"
)

// Ecosystem groups species. The slug is derived from the name when the
// ecosystem is created and never changes afterwards.
type Ecosystem struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	Image           *string   `json:"image"`
	Characteristics []string  `json:"characteristics"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Clone returns a deep copy
func (e *Ecosystem) Clone() *Ecosystem {
	if e == nil {
		return nil
	}
	out := *e
	if e.Image != nil {
		image := *e.Image
		out.Image = &image
	}
	if e.Characteristics != nil {
		out.Characteristics = append([]string(nil), e.Characteristics...)
	}
	return &out
}
