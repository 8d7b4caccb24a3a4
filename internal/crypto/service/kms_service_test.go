package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok, "keeper should be *secrets.Keeper")
	})

	t.Run("Error_UnknownScheme", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedKeyURI)
		assert.ErrorContains(t, err, "invalid")
		assert.Nil(t, keeper)
	})

	t.Run("Error_EmptyURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedKeyURI)
		assert.Nil(t, keeper)
	})

	t.Run("Error_DriverRejectsKey", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "base64key://not-a-valid-key")
		assert.ErrorContains(t, err, "failed to open KMS keeper")
		assert.Nil(t, keeper)
	})
}

func TestLoadMasterSecret(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("plain secret", func(t *testing.T) {
		ms, err := LoadMasterSecret(ctx, kmsService, "a-very-long-test-master-secret", "")
		require.NoError(t, err)

		err = ms.Use(func(secret []byte) error {
			assert.Equal(t, []byte("a-very-long-test-master-secret"), secret)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := LoadMasterSecret(ctx, kmsService, "", "")
		assert.ErrorIs(t, err, cryptoDomain.ErrMasterSecretNotSet)
	})

	t.Run("sealed secret round trip", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)
		plaintext := make([]byte, 32)
		_, err := rand.Read(plaintext)
		require.NoError(t, err)

		sealed, err := SealMasterSecret(ctx, kmsService, plaintext, keyURI)
		require.NoError(t, err)
		assert.NotEqual(t, base64.StdEncoding.EncodeToString(plaintext), sealed)

		ms, err := LoadMasterSecret(ctx, kmsService, sealed, keyURI)
		require.NoError(t, err)
		err = ms.Use(func(secret []byte) error {
			assert.Equal(t, plaintext, secret)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("sealed secret with a different key", func(t *testing.T) {
		sealed, err := SealMasterSecret(ctx, kmsService, make([]byte, 32), generateLocalSecretsURI(t))
		require.NoError(t, err)

		_, err = LoadMasterSecret(ctx, kmsService, sealed, generateLocalSecretsURI(t))
		assert.ErrorContains(t, err, "failed to unseal master secret")
	})

	t.Run("sealed secret is not base64", func(t *testing.T) {
		_, err := LoadMasterSecret(ctx, kmsService, "%%%", generateLocalSecretsURI(t))
		assert.ErrorContains(t, err, "failed to decode master secret ciphertext")
	})
}
