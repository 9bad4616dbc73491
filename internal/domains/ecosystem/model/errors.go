package model

import (
	"errors"

	"wildlife-catalog-backend/internal/shared/apperror"
)

// Error codes
const (
	ErrCodeEcosystemNotFound = "ECO001"
	ErrCodeValidation        = "ECO002"
	ErrCodeSlugTaken         = "ECO003"
)

var (
	ErrEcosystemNotFound = errors.New("ecosystem not found")
	ErrSlugTaken         = errors.New("ecosystem slug already exists")
)

func NewEcosystemNotFoundError() *apperror.Error {
	return apperror.Wrap(apperror.KindNotFound, ErrCodeEcosystemNotFound, "Ecosystem not found", ErrEcosystemNotFound)
}

func NewSlugTakenError(slug string) *apperror.Error {
	appErr := apperror.Wrap(apperror.KindValidation, ErrCodeSlugTaken, "Ecosystem slug already exists", ErrSlugTaken)
	appErr.Details = map[string]string{"slug": slug}
	return appErr
}

func NewValidationError(err error) *apperror.Error {
	return apperror.Validation(ErrCodeValidation, err)
}
