package model

import (
	"errors"

	"wildlife-catalog-backend/internal/shared/apperror"
)

// Error codes
const (
	ErrCodeSpeciesNotFound   = "SPC001"
	ErrCodeValidation        = "SPC002"
	ErrCodeEcosystemNotFound = "SPC003"
	ErrCodeStaleSpecies      = "SPC004"
)

// Repository errors
var (
	ErrSpeciesNotFound = errors.New("species not found")
	// ErrEcosystemNotFound means the referenced ecosystem does not exist
	ErrEcosystemNotFound = errors.New("referenced ecosystem not found")
	// ErrStale is returned by conditional writes when is_approved changed
	ErrStale = errors.New("species approval changed concurrently")
)

// Error constructors
func NewSpeciesNotFoundError() *apperror.Error {
	return apperror.Wrap(apperror.KindNotFound, ErrCodeSpeciesNotFound, "Species not found", ErrSpeciesNotFound)
}

func NewEcosystemNotFoundError() *apperror.Error {
	appErr := apperror.Wrap(
		apperror.KindReferenceNotFound,
		ErrCodeEcosystemNotFound,
		"Referenced ecosystem does not exist",
		ErrEcosystemNotFound,
	)
	appErr.Details = map[string]string{"ecosystem_id": "does not exist"}
	return appErr
}

func NewStaleError() *apperror.Error {
	return apperror.Wrap(
		apperror.KindInvalidTransition,
		ErrCodeStaleSpecies,
		"Species was approved concurrently, reload and retry",
		ErrStale,
	)
}

func NewValidationError(err error) *apperror.Error {
	return apperror.Validation(ErrCodeValidation, err)
}
