package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// masterKeySchemes are the key URI schemes with a registered keeper driver.
var masterKeySchemes = map[string]struct{}{
	"awskms":        {},
	"azurekeyvault": {},
	"gcpkms":        {},
	"hashivault":    {},
	"base64key":     {},
}

// KMSService opens the keeper that seals the vault master secret.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens the keeper at keyURI. A scheme with no registered driver
// fails with ErrUnsupportedKeyURI before any provider is contacted.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || u.Scheme == "" {
		return nil, cryptoDomain.ErrUnsupportedKeyURI
	}
	if _, ok := masterKeySchemes[u.Scheme]; !ok {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrUnsupportedKeyURI, u.Scheme)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
