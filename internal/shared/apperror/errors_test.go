package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesSentinelOfItsKind(t *testing.T) {
	err := New(KindForbidden, "CON003", "not allowed")

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, errors.Is(wrapped, ErrForbidden))
	assert.Equal(t, KindForbidden, KindOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("failed to load species", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, "failed to load species: connection reset", err.Error())
}

func TestKindOfUnknownErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestValidationExposesFieldDetails(t *testing.T) {
	fieldErrs := validation.Errors{
		"title": errors.New("cannot be blank"),
	}

	err := Validation("CON006", fieldErrs)

	require.Equal(t, KindValidation, err.Kind)
	details, ok := err.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "cannot be blank", details["title"])
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthenticated:   http.StatusUnauthorized,
		KindForbidden:         http.StatusForbidden,
		KindNotFound:          http.StatusNotFound,
		KindInvalidTransition: http.StatusConflict,
		KindReferenceNotFound: http.StatusUnprocessableEntity,
		KindValidation:        http.StatusBadRequest,
		KindInternal:          http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), kind)
	}
}
