// Package domain defines the envelope-encryption domain model: algorithms, the
// wire layout of an encrypted envelope, the process-wide master secret and the
// errors raised by the crypto engine.
//
// Envelope layout (the 44-byte prefix is a wire-compatibility invariant):
//
//	salt (16) ‖ wrap nonce (12) ‖ wrapped data key (16) ‖ payload nonce (12) ‖ AEAD(payload)
//
// The first 44 bytes form the WrappedDataKey; everything after it is the
// EncryptedPayload.
package domain

// Algorithm represents the AEAD algorithm used to encrypt PII payloads.
//
// Both supported algorithms provide authenticated encryption with a 12-byte
// nonce and a 16-byte tag.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred where AES hardware
	// acceleration is unavailable.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// SaltSize is the length of the random PBKDF2 salt stored in the envelope.
	SaltSize = 16
	// WrapNonceSize is the length of the nonce used when wrapping the data key.
	WrapNonceSize = 12
	// DataKeySize is the length of the random per-envelope data key.
	DataKeySize = 16
	// WrappedKeySize is the total size of the wrapped data key prefix.
	WrappedKeySize = SaltSize + WrapNonceSize + DataKeySize
	// KeySize is the size of every derived symmetric key (wrapping and payload keys).
	KeySize = 32
	// PayloadNonceSize is the AEAD nonce length for the payload.
	PayloadNonceSize = 12
	// MinKDFIterations is the minimum accepted PBKDF2 iteration count.
	MinKDFIterations = 100000
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
