// Package policy decides whether a caller may perform an action on a
// catalog record. Decisions are pure: they depend only on the caller
// identity, the action and the record's current state.
package policy

import (
	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/shared/apperror"
)

// Caller is the identity attached to a request. A nil *Caller means the
// request is anonymous.
type Caller struct {
	ID      uuid.UUID
	IsAdmin bool
}

// Owns reports whether the caller is the given owner
func (c *Caller) Owns(ownerID *uuid.UUID) bool {
	return c != nil && ownerID != nil && *ownerID == c.ID
}

// Action is something a caller wants to do with a record
type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Target is the record the action applies to
type Target interface {
	isTarget()
}

// ContributionTarget carries the contribution state the policy needs
type ContributionTarget struct {
	OwnerID uuid.UUID
	Pending bool
}

// SpeciesTarget carries the species state the policy needs.
// OwnerID is nil for catalog-seeded records.
type SpeciesTarget struct {
	OwnerID    *uuid.UUID
	IsApproved bool
}

// EcosystemTarget covers ecosystem catalog management
type EcosystemTarget struct{}

func (ContributionTarget) isTarget() {}
func (SpeciesTarget) isTarget()      {}
func (EcosystemTarget) isTarget()    {}

// Decision is the outcome of a policy evaluation
type Decision struct {
	Allowed bool
	Kind    apperror.Kind
	Reason  string
}

// Err converts a denied decision into a typed error; nil when allowed
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperror.New(d.Kind, codeFor(d.Kind), d.Reason)
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(kind apperror.Kind, reason string) Decision {
	return Decision{Kind: kind, Reason: reason}
}

// CanPerform evaluates the rules in precedence order:
//  1. administrators may do anything
//  2. species are readable when approved or owned, otherwise reported as not found
//  3. contributions are readable by their owner only
//  4. any authenticated caller may create
//  5. contributions are editable/deletable by their owner while pending
//  6. species are editable/deletable by their owner while unapproved
//  7. approve/reject is reserved to administrators
func CanPerform(caller *Caller, action Action, target Target) Decision {
	if caller != nil && caller.IsAdmin {
		return allow()
	}

	switch t := target.(type) {
	case SpeciesTarget:
		return speciesDecision(caller, action, t)
	case ContributionTarget:
		return contributionDecision(caller, action, t)
	case EcosystemTarget:
		return ecosystemDecision(caller, action)
	default:
		return deny(apperror.KindForbidden, "unknown target")
	}
}

func speciesDecision(caller *Caller, action Action, t SpeciesTarget) Decision {
	switch action {
	case ActionRead:
		if t.IsApproved || caller.Owns(t.OwnerID) {
			return allow()
		}
		// Unapproved records are hidden from everyone but their owner:
		// report them as missing rather than forbidden.
		return deny(apperror.KindNotFound, "Species not found")
	case ActionCreate:
		return createDecision(caller)
	case ActionUpdate, ActionDelete:
		if caller == nil {
			return deny(apperror.KindUnauthenticated, "Authentication required")
		}
		if caller.Owns(t.OwnerID) && !t.IsApproved {
			return allow()
		}
		return deny(apperror.KindForbidden, "Only the owner may change an unapproved species")
	default:
		return moderationDecision(caller)
	}
}

func contributionDecision(caller *Caller, action Action, t ContributionTarget) Decision {
	owner := t.OwnerID
	switch action {
	case ActionRead:
		if caller.Owns(&owner) {
			return allow()
		}
		return deny(apperror.KindForbidden, "You can only view your own contributions")
	case ActionCreate:
		return createDecision(caller)
	case ActionUpdate, ActionDelete:
		if caller == nil {
			return deny(apperror.KindUnauthenticated, "Authentication required")
		}
		if caller.Owns(&owner) && t.Pending {
			return allow()
		}
		return deny(apperror.KindForbidden, "Only the owner may change a pending contribution")
	default:
		return moderationDecision(caller)
	}
}

func ecosystemDecision(caller *Caller, action Action) Decision {
	if action == ActionRead {
		return allow()
	}
	if caller == nil {
		return deny(apperror.KindUnauthenticated, "Authentication required")
	}
	return deny(apperror.KindForbidden, "Admin role required")
}

func createDecision(caller *Caller) Decision {
	if caller == nil {
		return deny(apperror.KindUnauthenticated, "Authentication required")
	}
	return allow()
}

func moderationDecision(caller *Caller) Decision {
	if caller == nil {
		return deny(apperror.KindUnauthenticated, "Authentication required")
	}
	return deny(apperror.KindForbidden, "Admin role required")
}

func codeFor(kind apperror.Kind) string {
	switch kind {
	case apperror.KindUnauthenticated:
		return "AUTH_001"
	case apperror.KindNotFound:
		return "AUTH_002"
	default:
		return "AUTH_003"
	}
}
