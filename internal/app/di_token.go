package app

import (
	"context"
	"fmt"

	"github.com/allisson/keyosk/internal/database"
	tokenRepository "github.com/allisson/keyosk/internal/token/repository"
	tokenService "github.com/allisson/keyosk/internal/token/service"
	tokenUseCase "github.com/allisson/keyosk/internal/token/usecase"
)

// TokenRepository returns the issued token repository based on database driver.
func (c *Container) TokenRepository() (tokenUseCase.TokenRepository, error) {
	var err error
	c.tokenRepoInit.Do(func() {
		c.tokenRepo, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// Signer returns the token signer loaded from the signing configuration.
func (c *Container) Signer() (tokenService.Signer, error) {
	var err error
	c.signerInit.Do(func() {
		c.signer, err = c.initSigner()
		if err != nil {
			c.initErrors["signer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["signer"]; exists {
		return nil, storedErr
	}
	return c.signer, nil
}

// TokenEngine returns the token issuance engine.
func (c *Container) TokenEngine() (*tokenService.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initTokenEngine()
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

// Blacklist returns the revoked token blacklist: Redis when REDIS_URL is set, the
// token table otherwise.
func (c *Container) Blacklist() (tokenService.Blacklist, error) {
	var err error
	c.blacklistInit.Do(func() {
		c.blacklist, err = c.initBlacklist()
		if err != nil {
			c.initErrors["blacklist"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blacklist"]; exists {
		return nil, storedErr
	}
	return c.blacklist, nil
}

// TokenUseCase returns the token use case.
func (c *Container) TokenUseCase() (tokenUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

func (c *Container) initTokenRepository() (tokenUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return tokenRepository.NewMySQLTokenRepository(db), nil
	case database.DriverPostgres:
		return tokenRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, c.unsupportedDriver()
	}
}

// initSigner loads the signing key, decrypting it through KMS when configured.
func (c *Container) initSigner() (tokenService.Signer, error) {
	signer, err := tokenService.LoadSigner(context.Background(), tokenService.KeyConfig{
		Algorithm: c.config.SigningAlgorithm,
		Issuer:    c.config.TokenIssuer,
		Key:       c.config.SigningKey,
		KeyFile:   c.config.SigningKeyFile,
		KMSURI:    c.config.SigningKeyKMSURI,
	}, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to load token signer: %w", err)
	}
	return signer, nil
}

func (c *Container) initTokenEngine() (*tokenService.Engine, error) {
	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for token engine: %w", err)
	}
	return tokenService.NewEngine(signer, tokenService.NewRefreshTokenService(), c.config.TokenIssuer), nil
}

func (c *Container) initBlacklist() (tokenService.Blacklist, error) {
	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for blacklist: %w", err)
	}
	if client != nil {
		return tokenService.NewRedisBlacklist(client), nil
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for blacklist: %w", err)
	}
	return tokenService.NewDatabaseBlacklist(tokenRepo), nil
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (tokenUseCase.TokenUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	accounts, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for token use case: %w", err)
	}

	registry, err := c.DomainUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get domain use case for token use case: %w", err)
	}

	grants, err := c.GrantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant use case for token use case: %w", err)
	}

	engine, err := c.TokenEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get token engine for token use case: %w", err)
	}

	blacklist, err := c.Blacklist()
	if err != nil {
		return nil, fmt.Errorf("failed to get blacklist for token use case: %w", err)
	}

	baseUseCase := tokenUseCase.NewTokenUseCase(
		txManager,
		tokenRepo,
		accounts,
		registry,
		grants,
		engine,
		blacklist,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return tokenUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
