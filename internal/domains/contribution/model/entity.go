package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/policy"
)

// Status is the moderation state of a contribution
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Kind is what the contribution is about
type Kind string

const (
	KindObservation       Kind = "observation"
	KindSpeciesSuggestion Kind = "species_suggestion"
	KindEcosystemFinding  Kind = "ecosystem_finding"
)

var (
	Statuses = []interface{}{StatusPending, StatusApproved, StatusRejected}
	Kinds    = []interface{}{KindObservation, KindSpeciesSuggestion, KindEcosystemFinding}
)

// Contribution is a community submission awaiting or past moderation.
//
// ApproverID and ApprovedAt are set iff Status is approved.
// AdminNotes is only written by a rejection.
type Contribution struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`

	// Content
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Kind        Kind            `json:"kind"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Image       *string         `json:"image"`
	Location    *string         `json:"location"`

	// Moderation
	Status     Status     `json:"status"`
	AdminNotes *string    `json:"admin_notes"`
	ApproverID *uuid.UUID `json:"approver_id"`
	ApprovedAt *time.Time `json:"approved_at"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy
func (c *Contribution) Clone() *Contribution {
	if c == nil {
		return nil
	}
	out := *c
	if c.Payload != nil {
		out.Payload = append(json.RawMessage(nil), c.Payload...)
	}
	out.Image = cloneString(c.Image)
	out.Location = cloneString(c.Location)
	out.AdminNotes = cloneString(c.AdminNotes)
	if c.ApproverID != nil {
		id := *c.ApproverID
		out.ApproverID = &id
	}
	if c.ApprovedAt != nil {
		at := *c.ApprovedAt
		out.ApprovedAt = &at
	}
	return &out
}

// IsPending reports whether the contribution can still change
func (c *Contribution) IsPending() bool {
	return c.Status == StatusPending
}

// Target exposes the state the authorization policy decides on
func (c *Contribution) Target() policy.ContributionTarget {
	return policy.ContributionTarget{
		OwnerID: c.OwnerID,
		Pending: c.IsPending(),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
