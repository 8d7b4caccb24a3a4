// Package service implements the envelope crypto engine: AEAD ciphers, data key
// wrapping under the master secret and PII envelope sealing.
package service

import (
	"context"

	"github.com/allisson/piivault/internal/canonical"
)

// AEAD is an authenticated cipher with random nonce generation.
type AEAD interface {
	// Encrypt seals plaintext and returns the ciphertext (tag appended) and the nonce used.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext, failing if the tag does not verify.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// KeyWrapper wraps and unwraps data keys under the master secret.
type KeyWrapper interface {
	// Wrap returns the 44-byte wrapped form of dataKey.
	Wrap(dataKey []byte) ([]byte, error)

	// Unwrap recovers the data key from its 44-byte wrapped form.
	Unwrap(wrapped []byte) ([]byte, error)
}

// Engine is the envelope crypto engine used by the PII record store and the
// deletion workflow.
type Engine interface {
	// Encrypt serializes payload canonically and seals it in a new envelope.
	// Two calls with the same payload never return the same bytes.
	Encrypt(payload canonical.Document) ([]byte, error)

	// Decrypt opens an envelope. Tampering or a different master secret yields
	// cryptoDomain.ErrAuthenticationFailure.
	Decrypt(envelope []byte) (canonical.Document, error)

	// UnwrapKey recovers the data key from the 44-byte envelope prefix.
	UnwrapKey(wrappedKey []byte) ([]byte, error)

	// IsEnvelope is a cheap length check, see cryptoDomain.IsEnvelope.
	IsEnvelope(data []byte) bool
}

// KMSKeeper is the subset of *secrets.Keeper used to unseal the master secret.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
