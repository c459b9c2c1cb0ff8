// Package apperr holds the sentinel errors shared across handlers and
// repositories. Handlers translate them to HTTP error envelopes; everything
// else wraps them with context via fmt.Errorf("...: %w", ...).
package apperr

import "errors"

var (
	// ErrNotFound: the referenced work order or child entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition: the requested status change is not permitted from
	// the record's current status, including a lost race on a concurrent
	// conditional update.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrForbidden: the caller's role or identity does not satisfy the guard.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation: missing or malformed required input.
	ErrValidation = errors.New("validation failed")
)
