package models

import "errors"

var (
	// ErrUnauthorized covers missing/invalid sessions, role mismatches and ownership mismatches.
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrValidation is returned for malformed input such as a bad payment amount.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExternal wraps payment provider and notification sink failures.
	ErrExternal = errors.New("external service error")
)
