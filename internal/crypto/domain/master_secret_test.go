package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMasterSecret(t *testing.T) {
	t.Run("valid secret is copied", func(t *testing.T) {
		raw := []byte("a-sufficiently-long-master-secret")
		secret, err := NewMasterSecret(raw)
		require.NoError(t, err)

		Zero(raw)

		err = secret.Use(func(b []byte) error {
			assert.Equal(t, "a-sufficiently-long-master-secret", string(b))
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewMasterSecret(nil)
		assert.ErrorIs(t, err, ErrMasterSecretNotSet)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := NewMasterSecret([]byte("short"))
		assert.ErrorIs(t, err, ErrMasterSecretTooShort)
	})
}

func TestMasterSecret_Close(t *testing.T) {
	secret, err := NewMasterSecret([]byte("0123456789abcdef0123"))
	require.NoError(t, err)

	secret.Close()

	err = secret.Use(func([]byte) error { return nil })
	assert.ErrorIs(t, err, ErrMasterSecretNotSet)
}

func TestMasterSecret_String(t *testing.T) {
	secret, err := NewMasterSecret([]byte("0123456789abcdef0123"))
	require.NoError(t, err)

	assert.Equal(t, "[REDACTED]", secret.String())
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, b)

	assert.NotPanics(t, func() { Zero(nil) })
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseAlgorithm("rot13")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
