package app

import (
	"fmt"

	accountRepository "github.com/allisson/keyosk/internal/account/repository"
	accountService "github.com/allisson/keyosk/internal/account/service"
	accountUseCase "github.com/allisson/keyosk/internal/account/usecase"
	"github.com/allisson/keyosk/internal/database"
)

// SecretStore returns the account secret store.
func (c *Container) SecretStore() accountService.SecretStore {
	c.secretStoreInit.Do(func() {
		c.secretStore = accountService.NewSecretStore()
	})
	return c.secretStore
}

// AccountRepository returns the account repository based on database driver.
func (c *Container) AccountRepository() (accountUseCase.AccountRepository, error) {
	var err error
	c.accountRepoInit.Do(func() {
		c.accountRepo, err = c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountRepo"]; exists {
		return nil, storedErr
	}
	return c.accountRepo, nil
}

// AccountUseCase returns the account use case.
func (c *Container) AccountUseCase() (accountUseCase.AccountUseCase, error) {
	var err error
	c.accountUseCaseInit.Do(func() {
		c.accountUseCase, err = c.initAccountUseCase()
		if err != nil {
			c.initErrors["accountUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// initAccountRepository creates the account repository for the configured driver.
func (c *Container) initAccountRepository() (accountUseCase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return accountRepository.NewMySQLAccountRepository(db), nil
	case database.DriverPostgres:
		return accountRepository.NewPostgreSQLAccountRepository(db), nil
	default:
		return nil, c.unsupportedDriver()
	}
}

// initAccountUseCase creates the account use case with all its dependencies.
func (c *Container) initAccountUseCase() (accountUseCase.AccountUseCase, error) {
	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for account use case: %w", err)
	}

	baseUseCase := accountUseCase.NewAccountUseCase(accountRepo, c.SecretStore())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for account use case: %w", err)
		}
		return accountUseCase.NewAccountUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
