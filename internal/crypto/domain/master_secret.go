package domain

import (
	"sync"
)

// MinMasterSecretSize is the minimum accepted master secret length in bytes.
const MinMasterSecretSize = 16

// MasterSecret holds the process-wide secret every data key is wrapped under.
// It is supplied by configuration, never persisted and never logged.
type MasterSecret struct {
	mu  sync.RWMutex
	key []byte
}

// NewMasterSecret copies raw into a new MasterSecret. The caller may zero raw afterwards.
func NewMasterSecret(raw []byte) (*MasterSecret, error) {
	if len(raw) == 0 {
		return nil, ErrMasterSecretNotSet
	}
	if len(raw) < MinMasterSecretSize {
		return nil, ErrMasterSecretTooShort
	}

	key := make([]byte, len(raw))
	copy(key, raw)

	return &MasterSecret{key: key}, nil
}

// Use calls fn with the secret bytes. fn must not retain the slice.
func (m *MasterSecret) Use(fn func(secret []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.key) == 0 {
		return ErrMasterSecretNotSet
	}
	return fn(m.key)
}

// String never reveals the secret.
func (m *MasterSecret) String() string {
	return "[REDACTED]"
}

// Close zeroes the secret. Any later Use fails with ErrMasterSecretNotSet.
func (m *MasterSecret) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	Zero(m.key)
	m.key = nil
}

// Zero overwrites b with zeros so key material does not linger in memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
