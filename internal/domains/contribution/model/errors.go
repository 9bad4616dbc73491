package model

import (
	"errors"

	"wildlife-catalog-backend/internal/shared/apperror"
)

// Error codes
const (
	ErrCodeContributionNotFound = "CON001"
	ErrCodeInvalidTransition    = "CON002"
	ErrCodeStaleContribution    = "CON003"
	ErrCodeValidation           = "CON004"
	ErrCodeProtectedField       = "CON005"
)

// Repository / lifecycle errors
var (
	ErrContributionNotFound = errors.New("contribution not found")
	ErrInvalidTransition    = errors.New("contribution is no longer pending")
	// ErrStale is returned by conditional writes when the stored status
	// no longer matches the expected one
	ErrStale = errors.New("contribution status changed concurrently")
)

// Error constructors
func NewContributionNotFoundError() *apperror.Error {
	return apperror.Wrap(apperror.KindNotFound, ErrCodeContributionNotFound, "Contribution not found", ErrContributionNotFound)
}

func NewInvalidTransitionError(current Status) *apperror.Error {
	return apperror.Wrap(
		apperror.KindInvalidTransition,
		ErrCodeInvalidTransition,
		"Contribution is already "+string(current),
		ErrInvalidTransition,
	)
}

func NewStaleError() *apperror.Error {
	return apperror.Wrap(
		apperror.KindInvalidTransition,
		ErrCodeStaleContribution,
		"Contribution was modified concurrently, reload and retry",
		ErrStale,
	)
}

func NewValidationError(err error) *apperror.Error {
	return apperror.Validation(ErrCodeValidation, err)
}
