package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
)

// KMSService returns the KMS service used to unseal the master secret.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// MasterSecret returns the process master secret, unsealed through KMS when
// MASTER_SECRET_KMS_KEY_URI is set.
func (c *Container) MasterSecret() (*cryptoDomain.MasterSecret, error) {
	var err error
	c.masterSecretInit.Do(func() {
		c.masterSecret, err = c.initMasterSecret()
		if err != nil {
			c.initErrors["masterSecret"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterSecret"]; exists {
		return nil, storedErr
	}
	return c.masterSecret, nil
}

// Engine returns the envelope encryption engine.
func (c *Container) Engine() (cryptoService.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

func (c *Container) initMasterSecret() (*cryptoDomain.MasterSecret, error) {
	masterSecret, err := cryptoService.LoadMasterSecret(
		context.Background(),
		c.KMSService(),
		c.config.MasterSecret,
		c.config.MasterSecretKMSKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load master secret: %w", err)
	}
	return masterSecret, nil
}

func (c *Container) initEngine() (cryptoService.Engine, error) {
	masterSecret, err := c.MasterSecret()
	if err != nil {
		return nil, err
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption algorithm %q: %w", c.config.EncryptionAlgorithm, err)
	}

	engine, err := cryptoService.NewEnvelopeEngine(cryptoService.EngineConfig{
		MasterSecret:  masterSecret,
		Algorithm:     algorithm,
		KDFIterations: c.config.KDFIterations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope engine: %w", err)
	}
	return engine, nil
}
