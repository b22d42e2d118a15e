package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrWrongTokenType indicates an access token was presented where a
	// refresh token was expected, or vice versa
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidRefreshToken indicates the refresh token is malformed,
	// unknown to the store, or already consumed
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token is past its
	// expiration date
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrTokenRevoked indicates the refresh token was revoked by logout
	ErrTokenRevoked = errors.New("refresh token has been revoked")

	// ErrTokenBlacklisted indicates the access token was invalidated by
	// logout before its natural expiry
	ErrTokenBlacklisted = errors.New("authentication token has been invalidated")

	// ErrInvalidCredentials indicates the email/password pair did not match
	ErrInvalidCredentials = errors.New("invalid email or password")
)
