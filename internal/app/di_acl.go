package app

import (
	"fmt"

	aclRepository "github.com/allisson/keyosk/internal/acl/repository"
	aclUseCase "github.com/allisson/keyosk/internal/acl/usecase"
	"github.com/allisson/keyosk/internal/database"
)

// GrantRepository returns the ACL grant repository based on database driver.
func (c *Container) GrantRepository() (aclUseCase.GrantRepository, error) {
	var err error
	c.grantRepoInit.Do(func() {
		c.grantRepo, err = c.initGrantRepository()
		if err != nil {
			c.initErrors["grantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantRepo"]; exists {
		return nil, storedErr
	}
	return c.grantRepo, nil
}

// GrantUseCase returns the ACL grant use case.
func (c *Container) GrantUseCase() (aclUseCase.GrantUseCase, error) {
	var err error
	c.grantUseCaseInit.Do(func() {
		c.grantUseCase, err = c.initGrantUseCase()
		if err != nil {
			c.initErrors["grantUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantUseCase"]; exists {
		return nil, storedErr
	}
	return c.grantUseCase, nil
}

func (c *Container) initGrantRepository() (aclUseCase.GrantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for grant repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return aclRepository.NewMySQLGrantRepository(db), nil
	case database.DriverPostgres:
		return aclRepository.NewPostgreSQLGrantRepository(db), nil
	default:
		return nil, c.unsupportedDriver()
	}
}

// initGrantUseCase creates the grant use case with all its dependencies.
func (c *Container) initGrantUseCase() (aclUseCase.GrantUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for grant use case: %w", err)
	}

	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for grant use case: %w", err)
	}

	accounts, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for grant use case: %w", err)
	}

	registry, err := c.DomainUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get domain use case for grant use case: %w", err)
	}

	baseUseCase := aclUseCase.NewGrantUseCase(txManager, grantRepo, accounts, registry, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for grant use case: %w", err)
		}
		return aclUseCase.NewGrantUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
