package http

import (
	"context"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountHTTP "github.com/allisson/keyosk/internal/account/http"
	aclHTTP "github.com/allisson/keyosk/internal/acl/http"
	"github.com/allisson/keyosk/internal/config"
	"github.com/allisson/keyosk/internal/metrics"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
	registryHTTP "github.com/allisson/keyosk/internal/registry/http"
	tokenHTTP "github.com/allisson/keyosk/internal/token/http"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Domain     *registryHTTP.DomainHandler
	Account    *accountHTTP.AccountHandler
	Grant      *aclHTTP.GrantHandler
	Auth       *tokenHTTP.AuthHandler
	Blacklist  *tokenHTTP.BlacklistHandler
	Audit      *tokenHTTP.AuditHandler
	Verifier   tokenHTTP.TokenVerifier
	Authorizer *tokenHTTP.Authorizer
}

// SetupRouter builds the gin engine. ctx bounds background work started by middleware.
// metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	h Handlers,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Unauthenticated token endpoints
	auth := v1.Group("/auth")
	if cfg.RateLimitAuthEnabled {
		auth.Use(tokenHTTP.AuthRateLimitMiddleware(
			ctx,
			cfg.RateLimitAuthRequestsPerSec,
			cfg.RateLimitAuthBurst,
			s.logger,
		))
	}
	auth.POST("/:domain", h.Auth.AuthenticateHandler)
	auth.POST("/:domain/refresh", h.Auth.RefreshHandler)
	v1.GET("/public-key", h.Auth.PublicKeyHandler)
	v1.GET("/blacklist", h.Blacklist.ListHandler)

	// Administrative endpoints
	admin := v1.Group("")
	admin.Use(tokenHTTP.AuthenticationMiddleware(h.Verifier, s.logger))
	require := h.Authorizer.RequireAction
	ref := tokenHTTP.DomainParam("ref")
	byQuery := tokenHTTP.DomainQuery("domain")
	global := tokenHTTP.GlobalScope

	admin.POST("/blacklist", require(registryDomain.ActionTokenRevoke, global), h.Blacklist.RevokeHandler)

	domains := admin.Group("/domains")
	{
		domains.POST("", require(registryDomain.ActionDomainCreate, global), h.Domain.CreateHandler)
		domains.GET("", require(registryDomain.ActionDomainRead, global), h.Domain.ListHandler)
		domains.GET("/:ref", require(registryDomain.ActionDomainRead, ref), h.Domain.GetHandler)
		domains.PUT("/:ref", require(registryDomain.ActionDomainUpdate, ref), h.Domain.UpdateHandler)
		domains.DELETE("/:ref", require(registryDomain.ActionDomainDelete, ref), h.Domain.DeleteHandler)
		domains.POST("/:ref/access-lists", require(registryDomain.ActionDomainUpdate, ref), h.Domain.AddAccessListHandler)
		domains.POST("/:ref/permissions", require(registryDomain.ActionDomainUpdate, ref), h.Domain.AddPermissionHandler)
		domains.PUT("/:ref/permissions", require(registryDomain.ActionDomainUpdate, ref), h.Domain.ReplacePermissionsHandler)
		domains.PUT("/:ref/admin", require(registryDomain.ActionDomainUpdate, ref), h.Domain.SetAdminHandler)
		domains.GET("/:ref/audit", require(registryDomain.ActionDomainRead, ref), h.Audit.ListHandler)
	}

	// Accounts are shared by every domain. Domain admins reach the accounts assigned to
	// their domain through ?domain=; profile and secret changes stay global.
	accounts := admin.Group("/accounts")
	{
		accounts.POST("", require(registryDomain.ActionAccountCreate, byQuery), h.Account.CreateHandler)
		accounts.GET("", require(registryDomain.ActionAccountRead, byQuery), h.Account.ListHandler)
		accounts.GET("/:id", require(registryDomain.ActionAccountRead, byQuery), h.Account.GetHandler)
		accounts.PUT("/:id", require(registryDomain.ActionAccountUpdate, global), h.Account.UpdateHandler)
		accounts.DELETE("/:id", require(registryDomain.ActionAccountDelete, global), h.Account.DeleteHandler)
		accounts.PUT("/:id/client-secret",
			require(registryDomain.ActionAccountUpdate, global), h.Account.UpdateClientSecretHandler)
		accounts.POST("/:id/server-secret",
			require(registryDomain.ActionAccountUpdate, global), h.Account.RegenerateServerSecretHandler)

		// Grant writes assign the account to the domain; revoking unassigns it.
		accounts.GET("/:id/permissions", require(registryDomain.ActionAccountRead, byQuery), h.Grant.ListHandler)
		accounts.POST("/:id/permissions", require(registryDomain.ActionAccountCreate, byQuery), h.Grant.GrantHandler)
		accounts.PUT("/:id/permissions", require(registryDomain.ActionAccountCreate, byQuery), h.Grant.ReplaceHandler)
		accounts.DELETE("/:id/permissions", require(registryDomain.ActionAccountDelete, byQuery), h.Grant.RevokeHandler)
	}

	s.router = router
}
