package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// LIFECYCLE
// =====================================================
// pending ──approve──▶ approved   (terminal)
//    │
//    └────reject─────▶ rejected   (terminal)

var transitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected},
}

// CanTransition reports whether from → to is a valid move
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Approve returns the approved version of c. c itself is never modified.
func (c *Contribution) Approve(approverID uuid.UUID, now time.Time) (*Contribution, error) {
	if !CanTransition(c.Status, StatusApproved) {
		return nil, ErrInvalidTransition
	}

	next := c.Clone()
	next.Status = StatusApproved
	next.ApproverID = &approverID
	approvedAt := now
	next.ApprovedAt = &approvedAt
	next.UpdatedAt = now
	return next, nil
}

// Reject returns the rejected version of c. Absent notes leave any
// existing notes in place.
func (c *Contribution) Reject(notes *string, now time.Time) (*Contribution, error) {
	if !CanTransition(c.Status, StatusRejected) {
		return nil, ErrInvalidTransition
	}

	next := c.Clone()
	next.Status = StatusRejected
	if notes != nil {
		next.AdminNotes = cloneString(notes)
	}
	next.UpdatedAt = now
	return next, nil
}
