package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/platform/logger"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// TokenPair holds a newly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService implements user registration and the session credential
// lifecycle: login, refresh rotation, and logout.
type AuthService struct {
	userStore  store.UserStore
	tokenStore store.RefreshTokenStore
	jwtService JWTService
	hasher     PasswordHasher
	verifier   PasswordVerifier
	blacklist  *TokenBlacklist
	timeFunc   func() time.Time
}

// NewAuthService creates an AuthService. Panics if any dependency is nil,
// which indicates a programming error in the composition root.
func NewAuthService(
	userStore store.UserStore,
	tokenStore store.RefreshTokenStore,
	jwtService JWTService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	blacklist *TokenBlacklist,
) *AuthService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if tokenStore == nil {
		panic("tokenStore cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if blacklist == nil {
		panic("blacklist cannot be nil")
	}
	return &AuthService{
		userStore:  userStore,
		tokenStore: tokenStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		blacklist:  blacklist,
		timeFunc:   time.Now,
	}
}

// Register creates a new user account and immediately issues a token pair
// so the client is logged in after registration.
func (s *AuthService) Register(
	ctx context.Context,
	email, password, firstName, lastName, patronymic string,
) (*domain.User, *TokenPair, error) {
	log := logger.FromContext(ctx)

	exists, err := s.userStore.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if exists {
		return nil, nil, store.ErrEmailExists
	}

	user, err := domain.NewUser(email, password, firstName, lastName, patronymic)
	if err != nil {
		return nil, nil, err
	}

	hashedPassword, err := s.hasher.HashPassword(ctx, password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashedPassword
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	log.Info("user registered", "user_id", user.ID)
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	log := logger.FromContext(ctx)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.ComparePassword(ctx, user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info("user logged in", "user_id", user.ID)
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a
// new pair is issued. Each refresh token can be redeemed at most once;
// concurrent redemptions of the same token leave exactly one winner.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := logger.FromContext(ctx)

	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	record, err := s.tokenStore.GetByToken(ctx, refreshToken)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if record.Revoked {
		log.Warn("refresh rejected: token revoked", "user_id", record.UserID)
		return nil, ErrTokenRevoked
	}

	if record.IsExpired(s.timeFunc()) {
		// Drop the stale record so it cannot be retried.
		if err := s.tokenStore.Consume(ctx, refreshToken); err != nil && !store.IsNotFoundError(err) {
			log.Warn("failed to remove expired refresh token", "error", err)
		}
		return nil, ErrExpiredRefreshToken
	}

	if err := s.tokenStore.Consume(ctx, refreshToken); err != nil {
		if store.IsNotFoundError(err) {
			// A concurrent refresh already redeemed this token.
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Debug("refresh token rotated", "user_id", user.ID)
	return pair, nil
}

// Logout invalidates the current session: the access token is blacklisted
// for the remainder of its lifetime and the refresh token is revoked.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	log := logger.FromContext(ctx)

	claims, err := s.jwtService.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}

	record, err := s.tokenStore.GetByToken(ctx, refreshToken)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrInvalidRefreshToken
		}
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if record.UserID != claims.UserID {
		return ErrInvalidRefreshToken
	}

	if err := s.tokenStore.MarkRevoked(ctx, record.ID); err != nil && !store.IsNotFoundError(err) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.blacklist.Add(accessToken)

	log.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// IsAccessTokenRevoked reports whether the access token was invalidated
// by a logout before its natural expiry.
func (s *AuthService) IsAccessTokenRevoked(token string) bool {
	return s.blacklist.Contains(token)
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := s.timeFunc().Add(s.jwtService.RefreshTokenLifetime())
	record, err := domain.NewRefreshToken(user.ID, refreshToken, expiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ErrorIsAuthFailure reports whether err maps to an authentication
// failure rather than an internal error.
func ErrorIsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrTokenNotYetValid) ||
		errors.Is(err, ErrWrongTokenType) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrExpiredRefreshToken) ||
		errors.Is(err, ErrTokenRevoked) ||
		errors.Is(err, ErrTokenBlacklisted) ||
		errors.Is(err, ErrInvalidCredentials)
}
