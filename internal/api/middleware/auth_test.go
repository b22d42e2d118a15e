package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pr0gger1/bank-api/internal/api/shared"
	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/service/auth"
)

// stubJWTService validates exactly one known token string.
type stubJWTService struct {
	validToken  string
	claims      *auth.Claims
	validateErr error
}

func (s *stubJWTService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, error) {
	return s.validToken, nil
}

func (s *stubJWTService) ValidateAccessToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	if tokenString != s.validToken {
		return nil, auth.ErrInvalidToken
	}
	return s.claims, nil
}

func (s *stubJWTService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	return s.validToken, nil
}

func (s *stubJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return s.ValidateAccessToken(ctx, tokenString)
}

func (s *stubJWTService) AccessTokenLifetime() time.Duration  { return 15 * time.Minute }
func (s *stubJWTService) RefreshTokenLifetime() time.Duration { return 24 * time.Hour }

type stubRevocation struct {
	revoked map[string]bool
}

func (s *stubRevocation) IsAccessTokenRevoked(token string) bool {
	return s.revoked[token]
}

func newStubJWTService(userID uuid.UUID, role domain.Role) *stubJWTService {
	return &stubJWTService{
		validToken: "valid-token",
		claims: &auth.Claims{
			UserID:    userID,
			Email:     "ivan@example.com",
			Role:      role,
			TokenType: "access",
		},
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	newRequest := func(authHeader string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		return req
	}

	t.Run("valid token reaches handler with caller in context", func(t *testing.T) {
		t.Parallel()
		mw := NewAuthMiddleware(newStubJWTService(userID, domain.RoleUser), &stubRevocation{})

		var gotCaller *domain.User
		var gotToken string
		handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCaller, _ = GetUser(r)
			gotToken, _ = GetAccessToken(r)
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("Bearer valid-token"))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotCaller)
		assert.Equal(t, userID, gotCaller.ID)
		assert.Equal(t, domain.RoleUser, gotCaller.Role)
		assert.Equal(t, "valid-token", gotToken)
	})

	t.Run("rejections", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			authHeader string
			jwtErr     error
			revoked    bool
			wantStatus int
		}{
			{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
			{name: "not bearer", authHeader: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
			{name: "unknown token", authHeader: "Bearer other-token", wantStatus: http.StatusUnauthorized},
			{name: "expired token", authHeader: "Bearer valid-token", jwtErr: auth.ErrExpiredToken, wantStatus: http.StatusUnauthorized},
			{name: "wrong token type", authHeader: "Bearer valid-token", jwtErr: auth.ErrWrongTokenType, wantStatus: http.StatusUnauthorized},
			{name: "revoked token", authHeader: "Bearer valid-token", revoked: true, wantStatus: http.StatusUnauthorized},
			{name: "validator failure", authHeader: "Bearer valid-token", jwtErr: context.DeadlineExceeded, wantStatus: http.StatusInternalServerError},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				jwtService := newStubJWTService(userID, domain.RoleUser)
				jwtService.validateErr = tc.jwtErr
				revocation := &stubRevocation{revoked: map[string]bool{}}
				if tc.revoked {
					revocation.revoked["valid-token"] = true
				}
				mw := NewAuthMiddleware(jwtService, revocation)

				handlerCalled := false
				handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					handlerCalled = true
				}))

				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, newRequest(tc.authHeader))

				assert.Equal(t, tc.wantStatus, rec.Code)
				assert.False(t, handlerCalled)
			})
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	passthrough := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withCaller := func(r *http.Request, caller *domain.User) *http.Request {
		ctx := context.WithValue(r.Context(), shared.UserContextKey, caller)
		return r.WithContext(ctx)
	}

	mw := NewAuthMiddleware(newStubJWTService(uuid.New(), domain.RoleUser), nil)
	handler := mw.RequireAdmin(passthrough)

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()
		req := withCaller(httptest.NewRequest(http.MethodGet, "/api/users", nil),
			&domain.User{ID: uuid.New(), Role: domain.RoleAdmin})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		t.Parallel()
		req := withCaller(httptest.NewRequest(http.MethodGet, "/api/users", nil),
			&domain.User{ID: uuid.New(), Role: domain.RoleUser})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated request rejected", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
