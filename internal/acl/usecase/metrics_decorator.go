package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	"github.com/allisson/keyosk/internal/metrics"
)

const component = "acl"

type grantUseCaseWithMetrics struct {
	next    GrantUseCase
	metrics metrics.BusinessMetrics
}

// NewGrantUseCaseWithMetrics wraps a GrantUseCase with operation metrics.
func NewGrantUseCaseWithMetrics(useCase GrantUseCase, m metrics.BusinessMetrics) GrantUseCase {
	return &grantUseCaseWithMetrics{next: useCase, metrics: m}
}

func (g *grantUseCaseWithMetrics) Grant(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	input aclDomain.GrantInput,
) (*aclDomain.ResolvedGrant, error) {
	start := time.Now()
	grant, err := g.next.Grant(ctx, accountID, ref, input)
	metrics.Observe(ctx, g.metrics, component, "grant", start, err)
	return grant, err
}

func (g *grantUseCaseWithMetrics) Revoke(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	accessList, permission string,
) error {
	start := time.Now()
	err := g.next.Revoke(ctx, accountID, ref, accessList, permission)
	metrics.Observe(ctx, g.metrics, component, "revoke", start, err)
	return err
}

func (g *grantUseCaseWithMetrics) ReplaceGrants(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	inputs []aclDomain.GrantInput,
) ([]*aclDomain.ResolvedGrant, error) {
	start := time.Now()
	grants, err := g.next.ReplaceGrants(ctx, accountID, ref, inputs)
	metrics.Observe(ctx, g.metrics, component, "grant_replace", start, err)
	return grants, err
}

func (g *grantUseCaseWithMetrics) ListGrants(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
) ([]*aclDomain.ResolvedGrant, error) {
	start := time.Now()
	grants, err := g.next.ListGrants(ctx, accountID, ref)
	metrics.Observe(ctx, g.metrics, component, "grant_list", start, err)
	return grants, err
}

func (g *grantUseCaseWithMetrics) GrantsForAccountInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
	secretType accountDomain.SecretType,
) ([]*aclDomain.ResolvedGrant, error) {
	start := time.Now()
	grants, err := g.next.GrantsForAccountInDomain(ctx, accountID, domainID, secretType)
	metrics.Observe(ctx, g.metrics, component, "grant_resolve", start, err)
	return grants, err
}
