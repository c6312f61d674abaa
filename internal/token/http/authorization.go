package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/keyosk/internal/errors"
	"github.com/allisson/keyosk/internal/httputil"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// AdminRegistry is the part of the domain registry authorization reads.
type AdminRegistry interface {
	Resolve(ctx context.Context, ref string) (*registryDomain.Domain, error)
	ListAccessLists(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.AccessList, error)
	ListPermissions(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.Permission, error)
	GetAdmin(ctx context.Context, domainID uuid.UUID) (*registryDomain.DomainAdmin, error)
}

// Scope extracts the domain reference a request acts on, or "" for global routes.
type Scope func(c *gin.Context) string

// GlobalScope is the scope of routes that only global admins may use.
func GlobalScope(*gin.Context) string {
	return ""
}

// DomainParam reads the domain reference from a path parameter.
func DomainParam(name string) Scope {
	return func(c *gin.Context) string {
		return c.Param(name)
	}
}

// DomainQuery reads the domain reference from a query parameter.
func DomainQuery(name string) Scope {
	return func(c *gin.Context) string {
		return c.Query(name)
	}
}

// Authorizer decides whether verified claims allow an administrative action.
//
// Tokens of the admin domain are global admins for every action whose name is a
// permission they hold on the admin access list. Tokens of any other domain may act on
// that domain alone, through the permissions configured in its DomainAdmin settings.
type Authorizer struct {
	registry        AdminRegistry
	adminDomain     string
	adminAccessList string
	logger          *slog.Logger
}

// NewAuthorizer creates an Authorizer for the given admin domain name and access list.
func NewAuthorizer(registry AdminRegistry, adminDomain, adminAccessList string, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		registry:        registry,
		adminDomain:     adminDomain,
		adminAccessList: adminAccessList,
		logger:          logger,
	}
}

// Allowed reports whether claims may perform action on the domain referenced by ref.
func (a *Authorizer) Allowed(
	ctx context.Context,
	claims *tokenDomain.Claims,
	action registryDomain.Action,
	ref string,
) (bool, error) {
	allowed, _, err := a.authorize(ctx, claims, action, ref)
	return allowed, err
}

// authorize also returns the domain a domain admin decision is confined to. It is nil
// for global admins.
func (a *Authorizer) authorize(
	ctx context.Context,
	claims *tokenDomain.Claims,
	action registryDomain.Action,
	ref string,
) (bool, *uuid.UUID, error) {
	global, err := a.globalAllowed(ctx, claims, action)
	if err != nil || global {
		return global, nil, err
	}
	if ref == "" {
		return false, nil, nil
	}
	domainID, allowed, err := a.domainAllowed(ctx, claims, action, ref)
	if err != nil || !allowed {
		return false, nil, err
	}
	return true, &domainID, nil
}

func (a *Authorizer) globalAllowed(
	ctx context.Context,
	claims *tokenDomain.Claims,
	action registryDomain.Action,
) (bool, error) {
	if a.adminDomain == "" {
		return false, nil
	}
	domain, err := a.registry.Resolve(ctx, a.adminDomain)
	if err != nil {
		if apperrors.Is(err, registryDomain.ErrDomainNotFound) {
			return false, nil
		}
		return false, err
	}
	if claims.Audience != domain.Audience {
		return false, nil
	}

	permissions, err := a.registry.ListPermissions(ctx, domain.ID)
	if err != nil {
		return false, err
	}
	for _, permission := range permissions {
		if permission.Name == string(action) {
			return claims.Has(a.adminAccessList, permission.BitIndex, len(permissions)), nil
		}
	}
	return false, nil
}

func (a *Authorizer) domainAllowed(
	ctx context.Context,
	claims *tokenDomain.Claims,
	action registryDomain.Action,
	ref string,
) (uuid.UUID, bool, error) {
	domain, err := a.registry.Resolve(ctx, ref)
	if err != nil {
		if apperrors.Is(err, registryDomain.ErrDomainNotFound) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	if claims.Audience != domain.Audience {
		return uuid.Nil, false, nil
	}

	admin, err := a.registry.GetAdmin(ctx, domain.ID)
	if err != nil {
		return uuid.Nil, false, err
	}
	permissionID := admin.PermissionFor(action)
	if admin.AccessListID == nil || permissionID == nil {
		return uuid.Nil, false, nil
	}

	lists, err := a.registry.ListAccessLists(ctx, domain.ID)
	if err != nil {
		return uuid.Nil, false, err
	}
	var accessList string
	for _, list := range lists {
		if list.ID == *admin.AccessListID {
			accessList = list.Name
		}
	}

	permissions, err := a.registry.ListPermissions(ctx, domain.ID)
	if err != nil {
		return uuid.Nil, false, err
	}
	for _, permission := range permissions {
		if permission.ID == *permissionID {
			return domain.ID, claims.Has(accessList, permission.BitIndex, len(permissions)), nil
		}
	}
	return uuid.Nil, false, nil
}

// RequireAction rejects requests whose claims do not allow action on the scoped domain.
// Requests allowed through domain admin permissions carry the domain in
// httputil.DomainScope. It must run after AuthenticationMiddleware.
func (a *Authorizer) RequireAction(action registryDomain.Action, scope Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		claims, ok := GetClaims(ctx)
		if !ok {
			a.logger.Debug("authorization failed: no verified claims in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, a.logger)
			c.Abort()
			return
		}

		ref := scope(c)
		allowed, domainID, err := a.authorize(ctx, claims, action, ref)
		if err != nil {
			httputil.HandleErrorGin(c, err, a.logger)
			c.Abort()
			return
		}
		if !allowed {
			a.logger.Debug("authorization failed: insufficient permissions",
				slog.String("subject", claims.Subject),
				slog.String("audience", claims.Audience),
				slog.String("action", string(action)),
				slog.String("domain", ref))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, a.logger)
			c.Abort()
			return
		}
		if domainID != nil {
			c.Request = c.Request.WithContext(httputil.WithDomainScope(ctx, *domainID))
		}

		c.Next()
	}
}
