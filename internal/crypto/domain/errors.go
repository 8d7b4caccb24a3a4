package domain

import (
	"github.com/allisson/piivault/internal/errors"
)

// Cryptographic error definitions. They wrap the standard sentinels from
// internal/errors so handlers can map them to status codes.
var (
	// ErrUnsupportedAlgorithm indicates the configured payload algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key of the wrong length was supplied to a cipher.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrAuthenticationFailure indicates an envelope was tampered with or was
	// sealed under a different master secret. Decryption never returns partial
	// plaintext alongside this error.
	ErrAuthenticationFailure = errors.Wrap(errors.ErrInvalidInput, "authentication failure")

	// ErrInvalidEnvelope indicates the input is too short to be an envelope.
	ErrInvalidEnvelope = errors.Wrap(errors.ErrInvalidInput, "invalid envelope")

	// ErrMasterSecretNotSet indicates no master secret was configured.
	ErrMasterSecretNotSet = errors.Wrap(errors.ErrInvalidInput, "master secret not set")

	// ErrMasterSecretTooShort indicates the configured master secret is too weak.
	ErrMasterSecretTooShort = errors.Wrap(errors.ErrInvalidInput, "master secret too short")

	// ErrUnsupportedKeyURI indicates a master key URI with no registered KMS driver.
	ErrUnsupportedKeyURI = errors.Wrap(errors.ErrInvalidInput, "unsupported master key uri")

	// ErrWeakKDFIterations indicates a PBKDF2 iteration count below MinKDFIterations.
	ErrWeakKDFIterations = errors.Wrap(errors.ErrInvalidInput, "kdf iterations below minimum")
)
