// Package common contains shared constants and sentinel errors used across
// the API components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAccessDenied = errors.New("access denied")
	ErrValidation   = errors.New("validation error")

	// Registration errors. Both can be reported at once via errors.Join.
	ErrEmailTaken    = errors.New("email taken")
	ErrUsernameTaken = errors.New("username taken")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)
