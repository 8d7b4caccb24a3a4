package service

import (
	"context"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

// LoadMasterSecret builds the process master secret from configuration.
//
// Without keyURI, raw is used as-is. With keyURI, raw must be the base64
// ciphertext produced by the create-master-secret command and is unsealed
// once through the KMS keeper.
func LoadMasterSecret(
	ctx context.Context,
	kmsService KMSService,
	raw string,
	keyURI string,
) (*cryptoDomain.MasterSecret, error) {
	if raw == "" {
		return nil, cryptoDomain.ErrMasterSecretNotSet
	}
	if keyURI == "" {
		return cryptoDomain.NewMasterSecret([]byte(raw))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode master secret ciphertext: %w", err)
	}

	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal master secret: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	return cryptoDomain.NewMasterSecret(plaintext)
}

// SealMasterSecret encrypts plaintext with the KMS keeper at keyURI and returns
// the base64 value to place in MASTER_SECRET.
func SealMasterSecret(
	ctx context.Context,
	kmsService KMSService,
	plaintext []byte,
	keyURI string,
) (string, error) {
	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to seal master secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
