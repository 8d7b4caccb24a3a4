package app

import (
	"fmt"

	auditHTTP "github.com/allisson/piivault/internal/audit/http"
	auditRepository "github.com/allisson/piivault/internal/audit/repository"
	auditService "github.com/allisson/piivault/internal/audit/service"
	auditUseCase "github.com/allisson/piivault/internal/audit/usecase"
)

// AuditRepository returns the audit event repository for the configured driver.
func (c *Container) AuditRepository() (auditUseCase.AuditEventRepository, error) {
	var err error
	c.auditRepositoryInit.Do(func() {
		c.auditRepository, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepository"]; exists {
		return nil, storedErr
	}
	return c.auditRepository, nil
}

// AuditUseCase returns the audit recorder. The other modules record through it.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// AuditHandler returns the HTTP handler for audit queries.
func (c *Container) AuditHandler() (*auditHTTP.AuditHandler, error) {
	var err error
	c.auditHandlerInit.Do(func() {
		c.auditHandler, err = c.initAuditHandler()
		if err != nil {
			c.initErrors["auditHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditHandler"]; exists {
		return nil, storedErr
	}
	return c.auditHandler, nil
}

func (c *Container) initAuditRepository() (auditUseCase.AuditEventRepository, error) {
	if c.config.DBDriver == driverMemory {
		return auditRepository.NewMemoryAuditEventRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return auditRepository.NewPostgreSQLAuditEventRepository(db), nil
	case "mysql":
		return auditRepository.NewMySQLAuditEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAuditUseCase() (auditUseCase.AuditUseCase, error) {
	repo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}

	masterSecret, err := c.MasterSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get master secret for audit use case: %w", err)
	}

	useCase := auditUseCase.NewAuditUseCase(repo, auditService.NewHMACSigner(masterSecret))

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for audit use case: %w", err)
		}
		useCase = auditUseCase.NewAuditUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initAuditHandler() (*auditHTTP.AuditHandler, error) {
	useCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for audit handler: %w", err)
	}
	return auditHTTP.NewAuditHandler(useCase, c.Logger()), nil
}
