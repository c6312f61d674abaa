package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

type grantUseCase struct {
	txManager database.TxManager
	grantRepo GrantRepository
	accounts  AccountReader
	registry  Registry
	logger    *slog.Logger
}

// NewGrantUseCase creates a GrantUseCase.
func NewGrantUseCase(
	txManager database.TxManager,
	grantRepo GrantRepository,
	accounts AccountReader,
	registry Registry,
	logger *slog.Logger,
) GrantUseCase {
	return &grantUseCase{
		txManager: txManager,
		grantRepo: grantRepo,
		accounts:  accounts,
		registry:  registry,
		logger:    logger,
	}
}

// catalog indexes the access lists and permissions of one domain by name.
type catalog struct {
	domain      *registryDomain.Domain
	accessLists map[string]*registryDomain.AccessList
	permissions map[string]*registryDomain.Permission
}

func (g *grantUseCase) loadCatalog(ctx context.Context, ref string) (*catalog, error) {
	domain, err := g.registry.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	lists, err := g.registry.ListAccessLists(ctx, domain.ID)
	if err != nil {
		return nil, err
	}
	permissions, err := g.registry.ListPermissions(ctx, domain.ID)
	if err != nil {
		return nil, err
	}

	c := &catalog{
		domain:      domain,
		accessLists: make(map[string]*registryDomain.AccessList, len(lists)),
		permissions: make(map[string]*registryDomain.Permission, len(permissions)),
	}
	for _, list := range lists {
		c.accessLists[list.Name] = list
	}
	for _, perm := range permissions {
		c.permissions[perm.Name] = perm
	}
	return c, nil
}

func (c *catalog) resolve(accountID uuid.UUID, input aclDomain.GrantInput) (*aclDomain.ResolvedGrant, error) {
	list, ok := c.accessLists[input.AccessList]
	if !ok {
		return nil, apperrors.Wrap(
			aclDomain.ErrUnknownReference,
			fmt.Sprintf("access list %q in domain %q", input.AccessList, c.domain.Name),
		)
	}
	perm, ok := c.permissions[input.Permission]
	if !ok {
		return nil, apperrors.Wrap(
			aclDomain.ErrUnknownReference,
			fmt.Sprintf("permission %q in domain %q", input.Permission, c.domain.Name),
		)
	}
	return &aclDomain.ResolvedGrant{
		Grant: aclDomain.Grant{
			AccountID:        accountID,
			AccessListID:     list.ID,
			PermissionID:     perm.ID,
			WithServerSecret: input.WithServerSecret,
			WithClientSecret: input.WithClientSecret,
		},
		AccessList: list.Name,
		Permission: perm.Name,
		BitIndex:   perm.BitIndex,
	}, nil
}

func (g *grantUseCase) warnIfInert(ctx context.Context, grant *aclDomain.ResolvedGrant, domain string) {
	if !grant.Inert() {
		return
	}
	g.logger.WarnContext(ctx, "grant has no secret type enabled and will never take effect",
		slog.String("account_id", grant.AccountID.String()),
		slog.String("domain", domain),
		slog.String("access_list", grant.AccessList),
		slog.String("permission", grant.Permission),
	)
}

func (g *grantUseCase) Grant(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	input aclDomain.GrantInput,
) (*aclDomain.ResolvedGrant, error) {
	if _, err := g.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	c, err := g.loadCatalog(ctx, ref)
	if err != nil {
		return nil, err
	}
	grant, err := c.resolve(accountID, input)
	if err != nil {
		return nil, err
	}

	g.warnIfInert(ctx, grant, c.domain.Name)

	if err := g.grantRepo.Upsert(ctx, &grant.Grant); err != nil {
		return nil, err
	}
	return grant, nil
}

func (g *grantUseCase) Revoke(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	accessList, permission string,
) error {
	c, err := g.loadCatalog(ctx, ref)
	if err != nil {
		return err
	}
	grant, err := c.resolve(accountID, aclDomain.GrantInput{AccessList: accessList, Permission: permission})
	if err != nil {
		// Nothing can be granted on a name the domain does not have.
		if apperrors.Is(err, aclDomain.ErrUnknownReference) {
			return nil
		}
		return err
	}
	return g.grantRepo.Delete(ctx, accountID, grant.AccessListID, grant.PermissionID)
}

func (g *grantUseCase) ReplaceGrants(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	inputs []aclDomain.GrantInput,
) ([]*aclDomain.ResolvedGrant, error) {
	if _, err := g.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	c, err := g.loadCatalog(ctx, ref)
	if err != nil {
		return nil, err
	}

	type key struct{ accessList, permission uuid.UUID }
	index := make(map[key]int, len(inputs))
	grants := make([]*aclDomain.ResolvedGrant, 0, len(inputs))
	for _, input := range inputs {
		grant, err := c.resolve(accountID, input)
		if err != nil {
			return nil, err
		}
		k := key{grant.AccessListID, grant.PermissionID}
		if i, ok := index[k]; ok {
			grants[i] = grant
			continue
		}
		index[k] = len(grants)
		grants = append(grants, grant)
	}

	err = g.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := g.grantRepo.DeleteForAccountInDomain(ctx, accountID, c.domain.ID); err != nil {
			return err
		}
		for _, grant := range grants {
			if err := g.grantRepo.Upsert(ctx, &grant.Grant); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, grant := range grants {
		g.warnIfInert(ctx, grant, c.domain.Name)
	}
	return grants, nil
}

func (g *grantUseCase) ListGrants(ctx context.Context, accountID uuid.UUID, ref string) ([]*aclDomain.ResolvedGrant, error) {
	domain, err := g.registry.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return g.grantRepo.ListForAccountInDomain(ctx, accountID, domain.ID)
}

func (g *grantUseCase) GrantsForAccountInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
	secretType accountDomain.SecretType,
) ([]*aclDomain.ResolvedGrant, error) {
	grants, err := g.grantRepo.ListForAccountInDomain(ctx, accountID, domainID)
	if err != nil {
		return nil, err
	}

	active := make([]*aclDomain.ResolvedGrant, 0, len(grants))
	for _, grant := range grants {
		if grant.ActiveFor(secretType) {
			active = append(active, grant)
		}
	}
	return active, nil
}
