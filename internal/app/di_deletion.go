package app

import (
	"fmt"

	deletionHTTP "github.com/allisson/piivault/internal/deletion/http"
	deletionRepository "github.com/allisson/piivault/internal/deletion/repository"
	deletionService "github.com/allisson/piivault/internal/deletion/service"
	deletionUseCase "github.com/allisson/piivault/internal/deletion/usecase"
)

// DeletionRepository returns the deletion request repository for the configured driver.
func (c *Container) DeletionRepository() (deletionUseCase.DeletionRequestRepository, error) {
	var err error
	c.deletionRepositoryInit.Do(func() {
		c.deletionRepository, err = c.initDeletionRepository()
		if err != nil {
			c.initErrors["deletionRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deletionRepository"]; exists {
		return nil, storedErr
	}
	return c.deletionRepository, nil
}

// DeletionUseCase returns the right-to-be-forgotten workflow.
func (c *Container) DeletionUseCase() (deletionUseCase.DeletionUseCase, error) {
	var err error
	c.deletionUseCaseInit.Do(func() {
		c.deletionUseCase, err = c.initDeletionUseCase()
		if err != nil {
			c.initErrors["deletionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deletionUseCase"]; exists {
		return nil, storedErr
	}
	return c.deletionUseCase, nil
}

// DeletionHandler returns the HTTP handler for deletion requests.
func (c *Container) DeletionHandler() (*deletionHTTP.DeletionHandler, error) {
	var err error
	c.deletionHandlerInit.Do(func() {
		c.deletionHandler, err = c.initDeletionHandler()
		if err != nil {
			c.initErrors["deletionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deletionHandler"]; exists {
		return nil, storedErr
	}
	return c.deletionHandler, nil
}

// DeletionWorker returns the background worker draining pending deletion requests.
func (c *Container) DeletionWorker() (*deletionUseCase.Worker, error) {
	var err error
	c.deletionWorkerInit.Do(func() {
		c.deletionWorker, err = c.initDeletionWorker()
		if err != nil {
			c.initErrors["deletionWorker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deletionWorker"]; exists {
		return nil, storedErr
	}
	return c.deletionWorker, nil
}

func (c *Container) deletionConfig() deletionUseCase.Config {
	return deletionUseCase.Config{
		Interval:    c.config.RTBFWorkerInterval,
		BatchSize:   c.config.RTBFWorkerBatchSize,
		Concurrency: c.config.RTBFWorkerConcurrency,
	}
}

func (c *Container) initDeletionRepository() (deletionUseCase.DeletionRequestRepository, error) {
	if c.config.DBDriver == driverMemory {
		return deletionRepository.NewMemoryDeletionRequestRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for deletion repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return deletionRepository.NewPostgreSQLDeletionRequestRepository(db), nil
	case "mysql":
		return deletionRepository.NewMySQLDeletionRequestRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initDeletionUseCase() (deletionUseCase.DeletionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for deletion use case: %w", err)
	}

	repo, err := c.DeletionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get deletion repository for deletion use case: %w", err)
	}

	subjects, err := c.SubjectRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get subject repository for deletion use case: %w", err)
	}

	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine for deletion use case: %w", err)
	}

	consents, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for deletion use case: %w", err)
	}

	recorder, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit recorder for deletion use case: %w", err)
	}

	useCase := deletionUseCase.NewDeletionUseCase(
		c.deletionConfig(),
		txManager,
		repo,
		subjects,
		engine,
		consents,
		recorder,
		deletionService.NewRandomAnonymizer(nil),
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for deletion use case: %w", err)
		}
		useCase = deletionUseCase.NewDeletionUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initDeletionHandler() (*deletionHTTP.DeletionHandler, error) {
	useCase, err := c.DeletionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get deletion use case for deletion handler: %w", err)
	}
	return deletionHTTP.NewDeletionHandler(useCase, c.Logger()), nil
}

func (c *Container) initDeletionWorker() (*deletionUseCase.Worker, error) {
	useCase, err := c.DeletionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get deletion use case for deletion worker: %w", err)
	}
	return deletionUseCase.NewWorker(c.deletionConfig(), useCase, c.Logger()), nil
}
