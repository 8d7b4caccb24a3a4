package domain

import (
	"github.com/allisson/piivault/internal/errors"
)

var (
	// ErrRecorderFailure indicates the audit trail could not be written.
	ErrRecorderFailure = errors.New("audit recorder failure")

	// ErrSignatureInvalid indicates an audit event does not match its signature.
	ErrSignatureInvalid = errors.New("audit event signature invalid")

	// ErrInvalidEvent indicates an audit event is missing a required field.
	ErrInvalidEvent = errors.Wrap(errors.ErrInvalidInput, "invalid audit event")
)
