package app

import (
	"fmt"

	consentHTTP "github.com/allisson/piivault/internal/consent/http"
	consentRepository "github.com/allisson/piivault/internal/consent/repository"
	consentUseCase "github.com/allisson/piivault/internal/consent/usecase"
)

// ConsentRepository returns the consent repository for the configured driver.
func (c *Container) ConsentRepository() (consentUseCase.ConsentRepository, error) {
	var err error
	c.consentRepositoryInit.Do(func() {
		c.consentRepository, err = c.initConsentRepository()
		if err != nil {
			c.initErrors["consentRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentRepository"]; exists {
		return nil, storedErr
	}
	return c.consentRepository, nil
}

// ConsentUseCase returns the consent ledger.
func (c *Container) ConsentUseCase() (consentUseCase.ConsentUseCase, error) {
	var err error
	c.consentUseCaseInit.Do(func() {
		c.consentUseCase, err = c.initConsentUseCase()
		if err != nil {
			c.initErrors["consentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentUseCase"]; exists {
		return nil, storedErr
	}
	return c.consentUseCase, nil
}

// ConsentHandler returns the HTTP handler for consent operations.
func (c *Container) ConsentHandler() (*consentHTTP.ConsentHandler, error) {
	var err error
	c.consentHandlerInit.Do(func() {
		c.consentHandler, err = c.initConsentHandler()
		if err != nil {
			c.initErrors["consentHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentHandler"]; exists {
		return nil, storedErr
	}
	return c.consentHandler, nil
}

func (c *Container) initConsentRepository() (consentUseCase.ConsentRepository, error) {
	if c.config.DBDriver == driverMemory {
		return consentRepository.NewMemoryConsentRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for consent repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return consentRepository.NewPostgreSQLConsentRepository(db), nil
	case "mysql":
		return consentRepository.NewMySQLConsentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initConsentUseCase() (consentUseCase.ConsentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for consent use case: %w", err)
	}

	repo, err := c.ConsentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent repository for consent use case: %w", err)
	}

	recorder, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit recorder for consent use case: %w", err)
	}

	useCase := consentUseCase.NewConsentUseCase(txManager, repo, recorder)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for consent use case: %w", err)
		}
		useCase = consentUseCase.NewConsentUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initConsentHandler() (*consentHTTP.ConsentHandler, error) {
	useCase, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for consent handler: %w", err)
	}
	return consentHTTP.NewConsentHandler(useCase, c.Logger()), nil
}
