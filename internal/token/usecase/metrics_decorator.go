package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	"github.com/allisson/keyosk/internal/metrics"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

const component = "token"

type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with operation metrics and counts
// issued tokens per audience.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{next: useCase, metrics: m}
}

func (t *tokenUseCaseWithMetrics) recordIssued(ctx context.Context, result *tokenDomain.IssueResult, refreshed bool) {
	if result != nil && result.Claims != nil {
		t.metrics.RecordTokenIssued(ctx, result.Claims.Audience, refreshed)
	}
}

func (t *tokenUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	input *tokenDomain.AuthenticateInput,
) (*tokenDomain.IssueResult, error) {
	start := time.Now()
	result, err := t.next.Authenticate(ctx, input)
	metrics.Observe(ctx, t.metrics, component, "token_authenticate", start, err)
	t.recordIssued(ctx, result, false)
	return result, err
}

func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	secretType accountDomain.SecretType,
	withRefresh bool,
	lifespan time.Duration,
) (*tokenDomain.IssueResult, error) {
	start := time.Now()
	result, err := t.next.Issue(ctx, accountID, ref, secretType, withRefresh, lifespan)
	metrics.Observe(ctx, t.metrics, component, "token_issue", start, err)
	t.recordIssued(ctx, result, false)
	return result, err
}

func (t *tokenUseCaseWithMetrics) Refresh(
	ctx context.Context,
	ref string,
	refreshToken string,
) (*tokenDomain.IssueResult, error) {
	start := time.Now()
	result, err := t.next.Refresh(ctx, ref, refreshToken)
	metrics.Observe(ctx, t.metrics, component, "token_refresh", start, err)
	t.recordIssued(ctx, result, true)
	return result, err
}

func (t *tokenUseCaseWithMetrics) Verify(ctx context.Context, token string) (*tokenDomain.Claims, error) {
	return t.next.Verify(ctx, token)
}

func (t *tokenUseCaseWithMetrics) Get(ctx context.Context, tokenID uuid.UUID) (*tokenDomain.Token, error) {
	return t.next.Get(ctx, tokenID)
}

func (t *tokenUseCaseWithMetrics) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	start := time.Now()
	err := t.next.Revoke(ctx, tokenID)
	metrics.Observe(ctx, t.metrics, component, "token_revoke", start, err)
	return err
}

func (t *tokenUseCaseWithMetrics) ListByDomain(
	ctx context.Context,
	ref string,
	offset, limit int,
) ([]*tokenDomain.Token, error) {
	start := time.Now()
	tokens, err := t.next.ListByDomain(ctx, ref, offset, limit)
	metrics.Observe(ctx, t.metrics, component, "token_audit", start, err)
	return tokens, err
}

func (t *tokenUseCaseWithMetrics) ListRevoked(ctx context.Context) ([]*tokenDomain.Token, error) {
	return t.next.ListRevoked(ctx)
}

func (t *tokenUseCaseWithMetrics) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanupExpired(ctx, days, dryRun)
	metrics.Observe(ctx, t.metrics, component, "token_cleanup", start, err)
	return count, err
}

func (t *tokenUseCaseWithMetrics) PublicKey(ctx context.Context) ([]byte, error) {
	return t.next.PublicKey(ctx)
}
