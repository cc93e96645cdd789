package domain

import "errors"

// Sentinel errors forming the error taxonomy shared by storage, services,
// and handlers. Callers match with errors.Is and decide how to report.
var (
	// ErrNotFound marks a missing Term/Teacher/Course/FAQ/Registration.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks a non-admin invoking an admin action.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation marks malformed step input.
	ErrValidation = errors.New("validation failed")
	// ErrInUse marks a delete blocked by a foreign reference.
	ErrInUse = errors.New("record in use")
	// ErrTransient marks a recoverable I/O failure (roster file, network).
	ErrTransient = errors.New("transient failure")
)
