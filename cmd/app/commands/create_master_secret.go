package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
)

const masterSecretSize = 32

// RunCreateMasterSecret generates a random master secret and prints the
// environment variables to configure it.
//
// Without kmsKeyURI the printed MASTER_SECRET is the secret itself (base64
// text). With kmsKeyURI the raw secret is sealed by the KMS keeper and
// MASTER_SECRET holds the base64 ciphertext. Use base64key:// URIs only for
// local development.
func RunCreateMasterSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	secret := make([]byte, masterSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate master secret: %w", err)
	}
	defer cryptoDomain.Zero(secret)

	if kmsKeyURI == "" {
		logger.Warn("master secret printed in plaintext, store it in a secret manager")

		_, _ = fmt.Fprintln(writer, "# Plaintext master secret")
		_, _ = fmt.Fprintf(writer, "MASTER_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(secret))
		return nil
	}

	sealed, err := cryptoService.SealMasterSecret(ctx, kmsService, secret, kmsKeyURI)
	if err != nil {
		return err
	}

	logger.Info("master secret sealed with kms")

	_, _ = fmt.Fprintln(writer, "# KMS sealed master secret")
	_, _ = fmt.Fprintf(writer, "MASTER_SECRET=\"%s\"\n", sealed)
	_, _ = fmt.Fprintf(writer, "MASTER_SECRET_KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	return nil
}
