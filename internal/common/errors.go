// Package common defines shared constants and sentinel errors used across
// filevault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid, malformed or expired token).
	ErrorInvalidToken = errors.New("invalid token")

	ErrorInvalidAuthHeaderFormat = errors.New("invalid auth header format")
)
