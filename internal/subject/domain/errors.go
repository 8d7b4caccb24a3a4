package domain

import (
	apperrors "github.com/allisson/piivault/internal/errors"
)

var (
	// ErrSubjectNotFound indicates no subject exists with the given id.
	ErrSubjectNotFound = apperrors.Wrap(apperrors.ErrNotFound, "subject not found")

	// ErrSubjectAlreadyExists indicates a concurrent create won the id.
	ErrSubjectAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "subject already exists")

	// ErrSubjectAnonymized indicates the subject was erased and accepts no new PII.
	ErrSubjectAnonymized = apperrors.Wrap(apperrors.ErrConflict, "subject is anonymized")
)

// ErrDecryptFailed marks a read whose envelope could not be opened. It is
// never returned by the record store; reads report it through DecryptFailed.
var ErrDecryptFailed = apperrors.New("pii decryption failed")
