package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pr0gger1/bank-api/internal/service"
	"github.com/Pr0gger1/bank-api/internal/service/auth"
	"github.com/Pr0gger1/bank-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "revoked refresh token", err: auth.ErrTokenRevoked, want: http.StatusUnauthorized},
		{name: "foreign card", err: service.ErrNotOwned, want: http.StatusForbidden},
		{name: "card not found", err: store.ErrCardNotFound, want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("sender: %w", store.ErrCardNotFound), want: http.StatusNotFound},
		{name: "duplicate email", err: store.ErrEmailExists, want: http.StatusConflict},
		{name: "same card transfer", err: service.ErrSameCard, want: http.StatusBadRequest},
		{name: "non-positive amount", err: service.ErrInvalidAmount, want: http.StatusBadRequest},
		{name: "blocked sender", err: service.ErrSenderInactive, want: http.StatusBadRequest},
		{name: "blocked recipient", err: service.ErrRecipientInactive, want: http.StatusBadRequest},
		{name: "insufficient funds", err: service.ErrInsufficientFunds, want: http.StatusBadRequest},
		{name: "unknown error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: "An unexpected error occurred"},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: "Invalid credentials"},
		{name: "insufficient funds", err: service.ErrInsufficientFunds, want: "Not enough money on card balance"},
		{name: "foreign card", err: service.ErrNotOwned, want: "You do not own this card"},
		{name: "wrapped store error keeps safe message", err: fmt.Errorf("lookup: %w", store.ErrUserNotFound), want: "User not found"},
		{name: "internal details never leak", err: errors.New("pq: connection refused"), want: "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New("Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
