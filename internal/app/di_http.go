package app

import (
	"context"
	"fmt"

	accountHTTP "github.com/allisson/keyosk/internal/account/http"
	aclHTTP "github.com/allisson/keyosk/internal/acl/http"
	"github.com/allisson/keyosk/internal/http"
	registryHTTP "github.com/allisson/keyosk/internal/registry/http"
	tokenHTTP "github.com/allisson/keyosk/internal/token/http"
)

// HTTPServer returns the API server with every route mounted. ctx bounds background
// work of the middleware and should live as long as the server.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	domainUseCase, err := c.DomainUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get domain use case for http server: %w", err)
	}

	accountUseCase, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for http server: %w", err)
	}

	grantUseCase, err := c.GrantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant use case for http server: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	redisClient, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	if redisClient != nil {
		server.AddReadinessCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	server.SetupRouter(ctx, c.config, http.Handlers{
		Domain:     registryHTTP.NewDomainHandler(domainUseCase, logger),
		Account:    accountHTTP.NewAccountHandler(accountUseCase, logger),
		Grant:      aclHTTP.NewGrantHandler(grantUseCase, logger),
		Auth:       tokenHTTP.NewAuthHandler(tokenUseCase, logger),
		Blacklist:  tokenHTTP.NewBlacklistHandler(tokenUseCase, logger),
		Audit:      tokenHTTP.NewAuditHandler(tokenUseCase, logger),
		Verifier:   tokenUseCase,
		Authorizer: tokenHTTP.NewAuthorizer(domainUseCase, c.config.AdminDomain, c.config.AdminAccessList, logger),
	}, metricsProvider)

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if metricsProvider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), metricsProvider), nil
}
