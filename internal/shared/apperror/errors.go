package apperror

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// ERROR TAXONOMY
// =====================================================
// Every failure returned by a service belongs to exactly one Kind.
// Handlers map the Kind to an HTTP status; nothing else about the
// error needs to be inspected by the transport layer.

// Kind classifies an application error
type Kind string

const (
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindReferenceNotFound Kind = "REFERENCE_NOT_FOUND"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Sentinel errors, one per Kind. errors.Is(err, ErrForbidden) holds for
// any *Error of KindForbidden.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrValidation        = errors.New("validation failed")
	ErrInternal          = errors.New("internal error")
)

var sentinels = map[Kind]error{
	KindUnauthenticated:   ErrUnauthenticated,
	KindForbidden:         ErrForbidden,
	KindNotFound:          ErrNotFound,
	KindInvalidTransition: ErrInvalidTransition,
	KindReferenceNotFound: ErrReferenceNotFound,
	KindValidation:        ErrValidation,
	KindInternal:          ErrInternal,
}

// Error is the typed error returned by services
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's Kind
func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Kind]
	return ok && sentinel == target
}

// New creates an error of the given kind
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an error of the given kind that keeps the cause
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Internal wraps an infrastructure failure
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, "SYS_001", message, err)
}

// Validation converts a validation failure into a typed error.
// ozzo-validation field errors are exposed as details (field -> message).
func Validation(code string, err error) *Error {
	appErr := &Error{
		Kind:    KindValidation,
		Code:    code,
		Message: "Validation failed",
		Err:     err,
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
		appErr.Details = details
	}

	return appErr
}

// KindOf returns the Kind of err; unknown errors are internal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a Kind to its HTTP status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition:
		return http.StatusConflict
	case KindReferenceNotFound:
		return http.StatusUnprocessableEntity
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
