// Package common defines shared constants and sentinel errors used across
// the service layers of accountkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Account-specific errors.
	ErrValidation         = errors.New("validation error")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token verification outcomes. Each one wraps ErrInvalidToken.
	ErrTokenMalformed    = tokenError("token malformed")
	ErrTokenBadSignature = tokenError("token signature mismatch")
	ErrTokenExpired      = tokenError("token expired")
)

type tokenErr struct {
	msg string
}

func tokenError(msg string) error { return &tokenErr{msg: msg} }

func (e *tokenErr) Error() string { return e.msg }

func (e *tokenErr) Unwrap() error { return ErrInvalidToken }
