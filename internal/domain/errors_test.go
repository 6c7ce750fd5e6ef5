package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusCarrier is the capability the HTTP layer looks for.
type statusCarrier interface {
	error
	StatusCode() int
	ResponsePayload() any
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrValidation, ErrForbidden, ErrUnavailable}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b, "sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestTypedErrors_StatusAndPayload(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		sentinel        error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "not found with id",
			err:             NewNotFoundError("user", "42"),
			sentinel:        ErrNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedMessage: `user with id "42" not found`,
		},
		{
			name:            "not found without id",
			err:             NewNotFoundError("order", ""),
			sentinel:        ErrNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "order not found",
		},
		{
			name:            "conflict",
			err:             NewConflictError("user", "email taken"),
			sentinel:        ErrConflict,
			expectedStatus:  http.StatusConflict,
			expectedMessage: "user conflict: email taken",
		},
		{
			name:            "conflict with details",
			err:             NewConflictErrorWithDetails("user", "email taken", "a@b.c"),
			sentinel:        ErrConflict,
			expectedStatus:  http.StatusConflict,
			expectedMessage: "user conflict: email taken (a@b.c)",
		},
		{
			name:            "validation with field",
			err:             NewValidationError("email", "invalid format"),
			sentinel:        ErrValidation,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "validation failed for email: invalid format",
		},
		{
			name:            "forbidden",
			err:             NewForbiddenError("delete", "admin only"),
			sentinel:        ErrForbidden,
			expectedStatus:  http.StatusForbidden,
			expectedMessage: `operation "delete" forbidden: admin only`,
		},
		{
			name:            "unavailable",
			err:             NewUnavailableError("store", "closed"),
			sentinel:        ErrUnavailable,
			expectedStatus:  http.StatusServiceUnavailable,
			expectedMessage: `service "store" unavailable: closed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.sentinel)

			var sc statusCarrier
			require.ErrorAs(t, tt.err, &sc)
			assert.Equal(t, tt.expectedStatus, sc.StatusCode())

			payload, ok := sc.ResponsePayload().(Payload)
			require.True(t, ok)
			assert.Equal(t, tt.expectedStatus, payload.StatusCode)
			assert.Equal(t, tt.expectedMessage, payload.Message)
			assert.Equal(t, http.StatusText(tt.expectedStatus), payload.Error)
			assert.Equal(t, tt.expectedMessage, tt.err.Error())
		})
	}
}

func TestValidationErrors_PayloadCarriesList(t *testing.T) {
	err := NewValidationErrors([]string{"name is required", "email must be a valid email address"})

	assert.Equal(t, "validation failed: name is required; email must be a valid email address", err.Error())
	require.ErrorIs(t, err, ErrValidation)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	payload, ok := validation.ResponsePayload().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, payload["statusCode"])
	assert.Equal(t, []string{"name is required", "email must be a valid email address"}, payload["message"])
}

func TestError_Generic(t *testing.T) {
	t.Run("string payload", func(t *testing.T) {
		err := NewError(http.StatusTeapot, "short and stout")

		assert.Equal(t, http.StatusTeapot, err.StatusCode())
		assert.Equal(t, "short and stout", err.ResponsePayload())
		assert.Equal(t, "418 short and stout", err.Error())
	})

	t.Run("payload with message", func(t *testing.T) {
		err := NewErrorWithMessage(http.StatusUnauthorized, "token expired")

		payload, ok := err.ResponsePayload().(Payload)
		require.True(t, ok)
		assert.Equal(t, "token expired", payload.Message)
		assert.Equal(t, "Unauthorized", payload.Error)
	})

	t.Run("map payload falls back to status text in Error()", func(t *testing.T) {
		err := NewError(http.StatusBadRequest, map[string]any{"reason": "x"})
		assert.Equal(t, "400 Bad Request", err.Error())
	})

	t.Run("cause is unwrapped", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewErrorWithMessage(http.StatusInsufficientStorage, "cannot store").WithCause(cause)

		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestRouteErrors(t *testing.T) {
	notFound := NewRouteNotFoundError(http.MethodGet, "/nope?x=1")
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode())
	assert.Equal(t, "Cannot GET /nope?x=1", notFound.ResponsePayload().(Payload).Message)

	notAllowed := NewMethodNotAllowedError(http.MethodDelete, "/api/v1/users")
	assert.Equal(t, http.StatusMethodNotAllowed, notAllowed.StatusCode())
	assert.Equal(t, "Cannot DELETE /api/v1/users", notAllowed.ResponsePayload().(Payload).Message)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound with NotFoundError", NewNotFoundError("user", "123"), IsNotFound, true},
		{"IsNotFound with wrapped", fmt.Errorf("wrapped: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound with nil", nil, IsNotFound, false},
		{"IsConflict with ConflictError", NewConflictError("order", "exists"), IsConflict, true},
		{"IsConflict with other error", ErrNotFound, IsConflict, false},
		{"IsValidation with list", NewValidationErrors([]string{"x"}), IsValidation, true},
		{"IsForbidden with ForbiddenError", NewForbiddenError("delete", "no access"), IsForbidden, true},
		{"IsUnavailable with UnavailableError", NewUnavailableError("db", "timeout"), IsUnavailable, true},
		{"IsUnavailable with other error", ErrForbidden, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestWrappedDomainError_KeepsStatus(t *testing.T) {
	wrapped := fmt.Errorf("layer2: %w", fmt.Errorf("layer1: %w", NewNotFoundError("user", "7")))

	var sc statusCarrier
	require.ErrorAs(t, wrapped, &sc)
	assert.Equal(t, http.StatusNotFound, sc.StatusCode())
}
