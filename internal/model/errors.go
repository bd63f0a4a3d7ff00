package model

import "errors"

// Domain error kinds. Store and API code wrap these with context via
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is while
// still getting a human-readable message.
var (
	// ErrValidation marks caller-correctable input problems: missing or
	// malformed fields, unknown enum values.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks an authenticated caller without permission.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a missing item, request, user or message.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an illegal lifecycle transition, such as completing
	// a request that was never approved or completing it twice.
	ErrConflict = errors.New("conflict")
)
