package domain

import (
	"fmt"
	"strings"

	"github.com/allisson/piivault/internal/errors"
)

var (
	// ErrConsentNotFound indicates no consent exists for the lookup.
	ErrConsentNotFound = errors.Wrap(errors.ErrNotFound, "consent not found")

	// ErrConsentMissing indicates a required purpose has not been granted.
	ErrConsentMissing = errors.Wrap(errors.ErrForbidden, "consent missing")

	// ErrInvalidPurpose indicates an empty or oversized purpose.
	ErrInvalidPurpose = errors.Wrap(errors.ErrInvalidInput, "invalid purpose")
)

// MissingConsentError lists the required purposes a subject has not granted.
// It matches ErrConsentMissing with errors.Is.
type MissingConsentError struct {
	Purposes []string
}

func (e *MissingConsentError) Error() string {
	return fmt.Sprintf("consent missing for purposes: %s", strings.Join(e.Purposes, ", "))
}

// Unwrap exposes ErrConsentMissing.
func (e *MissingConsentError) Unwrap() error {
	return ErrConsentMissing
}
