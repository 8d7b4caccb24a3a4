package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/allisson/piivault/internal/canonical"
	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

const payloadKeyInfo = "piivault-payload-v1"

// EngineConfig configures an EnvelopeEngine. It is read once at construction.
type EngineConfig struct {
	MasterSecret  *cryptoDomain.MasterSecret
	Algorithm     cryptoDomain.Algorithm
	KDFIterations int
	// Rand is the entropy source. Defaults to crypto/rand.Reader.
	Rand io.Reader
}

// EnvelopeEngine seals PII documents into self-contained envelopes.
type EnvelopeEngine struct {
	wrapper   KeyWrapper
	newCipher cipherFactory
	rand      io.Reader
}

// NewEnvelopeEngine validates cfg and builds an engine.
func NewEnvelopeEngine(cfg EngineConfig) (*EnvelopeEngine, error) {
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	newCipher, err := cipherFor(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	wrapper, err := NewPBKDF2KeyWrapper(cfg.MasterSecret, cfg.KDFIterations, cfg.Rand)
	if err != nil {
		return nil, err
	}

	return &EnvelopeEngine{
		wrapper:   wrapper,
		newCipher: newCipher,
		rand:      cfg.Rand,
	}, nil
}

// Encrypt implements Engine.
func (e *EnvelopeEngine) Encrypt(payload canonical.Document) ([]byte, error) {
	plaintext, err := canonical.Encode(payload)
	if err != nil {
		return nil, err
	}

	dataKey := make([]byte, cryptoDomain.DataKeySize)
	if _, err := io.ReadFull(e.rand, dataKey); err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}
	defer cryptoDomain.Zero(dataKey)

	wrapped, err := e.wrapper.Wrap(dataKey)
	if err != nil {
		return nil, err
	}

	aead, err := e.payloadCipher(dataKey)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, wrapped)
	if err != nil {
		return nil, err
	}

	envelope := make([]byte, 0, len(wrapped)+len(nonce)+len(ciphertext))
	envelope = append(envelope, wrapped...)
	envelope = append(envelope, nonce...)
	envelope = append(envelope, ciphertext...)
	return envelope, nil
}

// Decrypt implements Engine.
func (e *EnvelopeEngine) Decrypt(envelope []byte) (canonical.Document, error) {
	wrapped, payload, err := cryptoDomain.SplitEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	if len(payload) < cryptoDomain.PayloadNonceSize {
		return nil, cryptoDomain.ErrAuthenticationFailure
	}

	dataKey, err := e.wrapper.Unwrap(wrapped)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dataKey)

	aead, err := e.payloadCipher(dataKey)
	if err != nil {
		return nil, err
	}

	nonce := payload[:cryptoDomain.PayloadNonceSize]
	plaintext, err := aead.Decrypt(payload[cryptoDomain.PayloadNonceSize:], nonce, wrapped)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailure
	}

	doc, err := canonical.Decode(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return doc, nil
}

// UnwrapKey implements Engine.
func (e *EnvelopeEngine) UnwrapKey(wrappedKey []byte) ([]byte, error) {
	return e.wrapper.Unwrap(wrappedKey)
}

// IsEnvelope implements Engine.
func (e *EnvelopeEngine) IsEnvelope(data []byte) bool {
	return cryptoDomain.IsEnvelope(data)
}

// payloadCipher expands the 16-byte data key to a 32-byte AEAD key with HKDF-SHA256.
func (e *EnvelopeEngine) payloadCipher(dataKey []byte) (AEAD, error) {
	key := make([]byte, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(key)

	if _, err := io.ReadFull(hkdf.New(sha256.New, dataKey, nil, []byte(payloadKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive payload key: %w", err)
	}
	return e.newCipher(key)
}

// cipherFactory builds the payload AEAD from a derived 32-byte key.
type cipherFactory func(key []byte) (AEAD, error)

// cipherFor resolves the payload cipher once, when the engine is built.
func cipherFor(alg cryptoDomain.Algorithm) (cipherFactory, error) {
	var build cipherFactory
	switch alg {
	case cryptoDomain.AESGCM:
		build = func(key []byte) (AEAD, error) { return NewAESGCM(key) }
	case cryptoDomain.ChaCha20:
		build = func(key []byte) (AEAD, error) { return NewChaCha20Poly1305(key) }
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	return func(key []byte) (AEAD, error) {
		if len(key) != cryptoDomain.KeySize {
			return nil, cryptoDomain.ErrInvalidKeySize
		}
		return build(key)
	}, nil
}
