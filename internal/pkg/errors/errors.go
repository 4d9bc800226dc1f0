package errors

import "errors"

// Sentinel errors shared across services and repositories. Handlers map these
// to HTTP statuses in one place; services wrap them with fmt.Errorf("%w: ...")
// to add detail without losing the kind.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for missing or invalid credentials/sessions.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller is authenticated but the
	// operation is not allowed for them.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a write collides with existing state
	// (taken username, taken email).
	ErrConflict = errors.New("resource state conflict")

	// ErrInternal is returned for store or upstream failures that the caller
	// may safely retry.
	ErrInternal = errors.New("internal error")
)
