package app

import (
	"fmt"

	"github.com/allisson/keyosk/internal/database"
	registryRepository "github.com/allisson/keyosk/internal/registry/repository"
	registryUseCase "github.com/allisson/keyosk/internal/registry/usecase"
)

// DomainRepository returns the domain repository based on database driver.
func (c *Container) DomainRepository() (registryUseCase.DomainRepository, error) {
	var err error
	c.domainRepoInit.Do(func() {
		c.domainRepo, err = c.initDomainRepository()
		if err != nil {
			c.initErrors["domainRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["domainRepo"]; exists {
		return nil, storedErr
	}
	return c.domainRepo, nil
}

// CatalogRepository returns the access list and permission repository based on database driver.
func (c *Container) CatalogRepository() (registryUseCase.CatalogRepository, error) {
	var err error
	c.catalogRepoInit.Do(func() {
		c.catalogRepo, err = c.initCatalogRepository()
		if err != nil {
			c.initErrors["catalogRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["catalogRepo"]; exists {
		return nil, storedErr
	}
	return c.catalogRepo, nil
}

// DomainUseCase returns the domain registry use case.
func (c *Container) DomainUseCase() (registryUseCase.DomainUseCase, error) {
	var err error
	c.domainUseCaseInit.Do(func() {
		c.domainUseCase, err = c.initDomainUseCase()
		if err != nil {
			c.initErrors["domainUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["domainUseCase"]; exists {
		return nil, storedErr
	}
	return c.domainUseCase, nil
}

func (c *Container) initDomainRepository() (registryUseCase.DomainRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for domain repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return registryRepository.NewMySQLDomainRepository(db), nil
	case database.DriverPostgres:
		return registryRepository.NewPostgreSQLDomainRepository(db), nil
	default:
		return nil, c.unsupportedDriver()
	}
}

func (c *Container) initCatalogRepository() (registryUseCase.CatalogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for catalog repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return registryRepository.NewMySQLCatalogRepository(db), nil
	case database.DriverPostgres:
		return registryRepository.NewPostgreSQLCatalogRepository(db), nil
	default:
		return nil, c.unsupportedDriver()
	}
}

// initDomainUseCase creates the domain use case with all its dependencies.
func (c *Container) initDomainUseCase() (registryUseCase.DomainUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for domain use case: %w", err)
	}

	domainRepo, err := c.DomainRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get domain repository for domain use case: %w", err)
	}

	catalogRepo, err := c.CatalogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog repository for domain use case: %w", err)
	}

	baseUseCase := registryUseCase.NewDomainUseCase(txManager, domainRepo, catalogRepo)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for domain use case: %w", err)
		}
		return registryUseCase.NewDomainUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
