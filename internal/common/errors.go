// Package common defines shared constants and sentinel errors used across
// the application layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrForbidden    = errors.New("access denied")

	// Validation errors. Wrap with a message:
	// fmt.Errorf("%w: end date must be after start date", common.ErrValidation)
	ErrValidation = errors.New("validation failed")

	// Conflict errors (409).
	ErrEmailTaken        = errors.New("email already registered")
	ErrDateConflict      = errors.New("cat already reserved for this period")
	ErrAlreadyCancelled  = errors.New("reservation already cancelled")

	// Session lifecycle errors.
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid token")
)
