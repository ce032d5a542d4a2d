package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes; everything else is treated as an internal error.
var (
	// ErrNotFound is returned when a referenced event, user, category, or
	// participation request does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the caller is not the event initiator
	// attempting an owner-only operation.
	ErrForbidden = errors.New("operation forbidden for this user")

	// ErrConflict is returned when a status transition violates the event or
	// request state machine, or when the participant limit is exhausted.
	ErrConflict = errors.New("state conflict")

	// ErrInvalidInput is returned for malformed timestamps, invalid pagination
	// bounds, unknown lifecycle actions, and event dates inside the guard
	// window.
	ErrInvalidInput = errors.New("invalid input")
)
