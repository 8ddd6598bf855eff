// Package apperr defines the domain error taxonomy.
//
// All domain failures are returned as values built from these sentinels so
// the HTTP layer can map them to status codes without string matching.
// Only programming errors and exhausted startup retries are fatal.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means an id did not resolve to a document.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness constraint was violated, e.g. a
	// duplicate email at registration.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition means a moderation state guard failed: the
	// resource was not in the expected pre-state at write time.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAuth is a deliberately generic credential failure. It never says
	// which part of the credential pair was wrong.
	ErrAuth = errors.New("invalid credentials")

	// ErrStoreUnavailable means the document store is unreachable or a call
	// timed out. The HTTP layer maps it to a retriable server error.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrRateLimited means the caller exceeded a request budget and should
	// back off before retrying.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError carries every violation found in one pass so callers can
// self-correct in a single round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Validation builds a ValidationError from one or more violations.
func Validation(violations ...string) error {
	return &ValidationError{Violations: violations}
}

// Validationf builds a single-violation ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{Violations: []string{fmt.Sprintf(format, args...)}}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
