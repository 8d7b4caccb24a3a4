package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

func TestPBKDF2KeyWrapper(t *testing.T) {
	ms, err := cryptoDomain.NewMasterSecret([]byte("test-master-secret-value"))
	require.NoError(t, err)

	wrapper, err := NewPBKDF2KeyWrapper(ms, cryptoDomain.MinKDFIterations, rand.Reader)
	require.NoError(t, err)

	dataKey := randomKey(t, cryptoDomain.DataKeySize)

	wrapped, err := wrapper.Wrap(dataKey)
	require.NoError(t, err)
	assert.Len(t, wrapped, cryptoDomain.WrappedKeySize)
	assert.NotContains(t, string(wrapped), string(dataKey))

	unwrapped, err := wrapper.Unwrap(wrapped)
	require.NoError(t, err)
	assert.Equal(t, dataKey, unwrapped)

	t.Run("wrong data key size", func(t *testing.T) {
		_, err := wrapper.Wrap(make([]byte, 32))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("fresh salt and nonce per wrap", func(t *testing.T) {
		again, err := wrapper.Wrap(dataKey)
		require.NoError(t, err)
		assert.NotEqual(t, wrapped, again)
	})

	t.Run("weak iterations rejected", func(t *testing.T) {
		_, err := NewPBKDF2KeyWrapper(ms, 99999, rand.Reader)
		assert.ErrorIs(t, err, cryptoDomain.ErrWeakKDFIterations)
	})
}
