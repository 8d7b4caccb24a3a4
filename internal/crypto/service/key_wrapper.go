package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

// PBKDF2KeyWrapper wraps data keys with a ChaCha20 keystream keyed by
// PBKDF2-SHA256(master secret, salt). The wrapped form has no tag of its own;
// its integrity is enforced by the envelope engine, which authenticates the
// whole 44-byte prefix as associated data of the payload.
type PBKDF2KeyWrapper struct {
	masterSecret *cryptoDomain.MasterSecret
	iterations   int
	rand         io.Reader
}

// NewPBKDF2KeyWrapper creates a key wrapper. iterations must be at least
// cryptoDomain.MinKDFIterations.
func NewPBKDF2KeyWrapper(
	masterSecret *cryptoDomain.MasterSecret,
	iterations int,
	rand io.Reader,
) (*PBKDF2KeyWrapper, error) {
	if masterSecret == nil {
		return nil, cryptoDomain.ErrMasterSecretNotSet
	}
	if iterations < cryptoDomain.MinKDFIterations {
		return nil, cryptoDomain.ErrWeakKDFIterations
	}
	return &PBKDF2KeyWrapper{masterSecret: masterSecret, iterations: iterations, rand: rand}, nil
}

// Wrap encrypts a 16-byte data key under a fresh salt and nonce.
func (w *PBKDF2KeyWrapper) Wrap(dataKey []byte) ([]byte, error) {
	if len(dataKey) != cryptoDomain.DataKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	wk := cryptoDomain.WrappedKey{
		Salt:       make([]byte, cryptoDomain.SaltSize),
		Nonce:      make([]byte, cryptoDomain.WrapNonceSize),
		Ciphertext: make([]byte, cryptoDomain.DataKeySize),
	}
	if _, err := io.ReadFull(w.rand, wk.Salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if _, err := io.ReadFull(w.rand, wk.Nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	if err := w.xor(wk.Salt, wk.Nonce, wk.Ciphertext, dataKey); err != nil {
		return nil, err
	}
	return wk.Bytes(), nil
}

// Unwrap recovers the data key from a 44-byte wrapped key.
func (w *PBKDF2KeyWrapper) Unwrap(wrapped []byte) ([]byte, error) {
	wk, err := cryptoDomain.ParseWrappedKey(wrapped)
	if err != nil {
		return nil, err
	}

	dataKey := make([]byte, cryptoDomain.DataKeySize)
	if err := w.xor(wk.Salt, wk.Nonce, dataKey, wk.Ciphertext); err != nil {
		return nil, err
	}
	return dataKey, nil
}

func (w *PBKDF2KeyWrapper) xor(salt, nonce, dst, src []byte) error {
	return w.masterSecret.Use(func(secret []byte) error {
		wrappingKey := pbkdf2.Key(secret, salt, w.iterations, cryptoDomain.KeySize, sha256.New)
		defer cryptoDomain.Zero(wrappingKey)

		stream, err := chacha20.NewUnauthenticatedCipher(wrappingKey, nonce)
		if err != nil {
			return fmt.Errorf("failed to create wrapping cipher: %w", err)
		}
		stream.XORKeyStream(dst, src)
		return nil
	})
}
