package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the ingest pipeline and query surface.
var (
	// ErrAdNotFound is returned when a click references an unknown ad.
	ErrAdNotFound = errors.New("ad not found")

	// ErrSessionNotFound is returned by session lookups for unknown ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrScorerUnavailable is returned when the fraud scorer fails. The
	// click is never silently treated as genuine; callers must retry or
	// surface the failure.
	ErrScorerUnavailable = errors.New("fraud scorer unavailable")
)

// ValidationError describes a malformed click event. Events failing
// validation are rejected before any state is modified.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
