package app

import (
	"fmt"

	subjectHTTP "github.com/allisson/piivault/internal/subject/http"
	subjectRepository "github.com/allisson/piivault/internal/subject/repository"
	subjectUseCase "github.com/allisson/piivault/internal/subject/usecase"
)

// SubjectRepository returns the subject repository for the configured driver.
func (c *Container) SubjectRepository() (subjectUseCase.SubjectRepository, error) {
	var err error
	c.subjectRepositoryInit.Do(func() {
		c.subjectRepository, err = c.initSubjectRepository()
		if err != nil {
			c.initErrors["subjectRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subjectRepository"]; exists {
		return nil, storedErr
	}
	return c.subjectRepository, nil
}

// SubjectUseCase returns the PII record store.
func (c *Container) SubjectUseCase() (subjectUseCase.SubjectUseCase, error) {
	var err error
	c.subjectUseCaseInit.Do(func() {
		c.subjectUseCase, err = c.initSubjectUseCase()
		if err != nil {
			c.initErrors["subjectUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subjectUseCase"]; exists {
		return nil, storedErr
	}
	return c.subjectUseCase, nil
}

// SubjectHandler returns the HTTP handler for subject operations.
func (c *Container) SubjectHandler() (*subjectHTTP.SubjectHandler, error) {
	var err error
	c.subjectHandlerInit.Do(func() {
		c.subjectHandler, err = c.initSubjectHandler()
		if err != nil {
			c.initErrors["subjectHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subjectHandler"]; exists {
		return nil, storedErr
	}
	return c.subjectHandler, nil
}

func (c *Container) initSubjectRepository() (subjectUseCase.SubjectRepository, error) {
	if c.config.DBDriver == driverMemory {
		return subjectRepository.NewMemorySubjectRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for subject repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return subjectRepository.NewPostgreSQLSubjectRepository(db), nil
	case "mysql":
		return subjectRepository.NewMySQLSubjectRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initSubjectUseCase() (subjectUseCase.SubjectUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for subject use case: %w", err)
	}

	repo, err := c.SubjectRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get subject repository for subject use case: %w", err)
	}

	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine for subject use case: %w", err)
	}

	consents, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for subject use case: %w", err)
	}

	recorder, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit recorder for subject use case: %w", err)
	}

	useCase := subjectUseCase.NewSubjectUseCase(txManager, repo, engine, consents, recorder, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for subject use case: %w", err)
		}
		useCase = subjectUseCase.NewSubjectUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initSubjectHandler() (*subjectHTTP.SubjectHandler, error) {
	useCase, err := c.SubjectUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get subject use case for subject handler: %w", err)
	}
	return subjectHTTP.NewSubjectHandler(useCase, c.Logger()), nil
}
