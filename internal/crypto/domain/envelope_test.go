package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrappedKeySize(t *testing.T) {
	assert.Equal(t, 44, WrappedKeySize)
}

func TestIsEnvelope(t *testing.T) {
	assert.False(t, IsEnvelope(nil))
	assert.False(t, IsEnvelope(make([]byte, 44)))
	assert.True(t, IsEnvelope(make([]byte, 45)))
}

func TestSplitEnvelope(t *testing.T) {
	t.Run("splits at the wrapped key boundary", func(t *testing.T) {
		envelope := append(bytes.Repeat([]byte{1}, WrappedKeySize), []byte{2, 3, 4}...)

		wrapped, payload, err := SplitEnvelope(envelope)
		require.NoError(t, err)
		assert.Len(t, wrapped, WrappedKeySize)
		assert.Equal(t, []byte{2, 3, 4}, payload)
	})

	t.Run("too short", func(t *testing.T) {
		_, _, err := SplitEnvelope(make([]byte, WrappedKeySize))
		assert.ErrorIs(t, err, ErrInvalidEnvelope)
	})
}

func TestParseWrappedKey(t *testing.T) {
	raw := make([]byte, WrappedKeySize)
	for i := range raw {
		raw[i] = byte(i)
	}

	wk, err := ParseWrappedKey(raw)
	require.NoError(t, err)
	assert.Len(t, wk.Salt, SaltSize)
	assert.Len(t, wk.Nonce, WrapNonceSize)
	assert.Len(t, wk.Ciphertext, DataKeySize)
	assert.Equal(t, raw, wk.Bytes())

	_, err = ParseWrappedKey(raw[:10])
	assert.ErrorIs(t, err, ErrInvalidEnvelope)
}
