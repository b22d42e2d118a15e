package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Pr0gger1/bank-api/internal/api/shared"
	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/redact"
	"github.com/Pr0gger1/bank-api/internal/service/auth"
)

// RevocationChecker reports whether an access token was invalidated by a
// logout before its natural expiry.
type RevocationChecker interface {
	IsAccessTokenRevoked(token string) bool
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	revocation RevocationChecker
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, revocation RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		revocation: revocation,
	}
}

// Authenticate validates the bearer token from the Authorization header,
// rejects blacklisted tokens, and adds the caller's identity to the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		token := parts[1]

		claims, err := m.jwtService.ValidateAccessToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case auth.ErrorIsAuthFailure(err):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		if m.revocation != nil && m.revocation.IsAccessTokenRevoked(token) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token revoked")
			return
		}

		caller := &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		}

		ctx := context.WithValue(r.Context(), shared.UserContextKey, caller)
		ctx = context.WithValue(ctx, shared.AccessTokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose authenticated caller does not hold
// the ADMIN role. Must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := GetUser(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !caller.IsAdmin() {
			shared.RespondWithError(w, r, http.StatusForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser extracts the authenticated caller from the request context.
// Returns the caller and a boolean indicating if it was found.
func GetUser(r *http.Request) (*domain.User, bool) {
	caller, ok := r.Context().Value(shared.UserContextKey).(*domain.User)
	return caller, ok && caller != nil
}

// GetAccessToken extracts the raw bearer token of the current request
// from the context.
func GetAccessToken(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(shared.AccessTokenContextKey).(string)
	return token, ok && token != ""
}
