package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	"github.com/allisson/keyosk/internal/metrics"
)

const component = "account"

type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with operation metrics.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *accountUseCaseWithMetrics) Create(
	ctx context.Context,
	input *accountDomain.CreateAccountInput,
) (*accountDomain.CreateAccountOutput, error) {
	start := time.Now()
	output, err := a.next.Create(ctx, input)
	metrics.Observe(ctx, a.metrics, component, "account_create", start, err)
	return output, err
}

func (a *accountUseCaseWithMetrics) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Get(ctx, accountID)
	metrics.Observe(ctx, a.metrics, component, "account_get", start, err)
	return account, err
}

func (a *accountUseCaseWithMetrics) GetByUsername(
	ctx context.Context,
	username string,
) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.GetByUsername(ctx, username)
	metrics.Observe(ctx, a.metrics, component, "account_get_by_username", start, err)
	return account, err
}

func (a *accountUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*accountDomain.Account, error) {
	start := time.Now()
	accounts, err := a.next.List(ctx, offset, limit)
	metrics.Observe(ctx, a.metrics, component, "account_list", start, err)
	return accounts, err
}

func (a *accountUseCaseWithMetrics) GetInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.GetInDomain(ctx, accountID, domainID)
	metrics.Observe(ctx, a.metrics, component, "account_get_in_domain", start, err)
	return account, err
}

func (a *accountUseCaseWithMetrics) ListInDomain(
	ctx context.Context,
	domainID uuid.UUID,
	offset, limit int,
) ([]*accountDomain.Account, error) {
	start := time.Now()
	accounts, err := a.next.ListInDomain(ctx, domainID, offset, limit)
	metrics.Observe(ctx, a.metrics, component, "account_list_in_domain", start, err)
	return accounts, err
}

func (a *accountUseCaseWithMetrics) Update(
	ctx context.Context,
	accountID uuid.UUID,
	input *accountDomain.UpdateAccountInput,
) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Update(ctx, accountID, input)
	metrics.Observe(ctx, a.metrics, component, "account_update", start, err)
	return account, err
}

func (a *accountUseCaseWithMetrics) Delete(ctx context.Context, accountID uuid.UUID) error {
	start := time.Now()
	err := a.next.Delete(ctx, accountID)
	metrics.Observe(ctx, a.metrics, component, "account_delete", start, err)
	return err
}

func (a *accountUseCaseWithMetrics) UpdateClientSecret(ctx context.Context, accountID uuid.UUID, secret string) error {
	start := time.Now()
	err := a.next.UpdateClientSecret(ctx, accountID, secret)
	metrics.Observe(ctx, a.metrics, component, "client_secret_update", start, err)
	return err
}

func (a *accountUseCaseWithMetrics) RegenerateServerSecret(ctx context.Context, accountID uuid.UUID) (string, error) {
	start := time.Now()
	secret, err := a.next.RegenerateServerSecret(ctx, accountID)
	metrics.Observe(ctx, a.metrics, component, "server_secret_regenerate", start, err)
	return secret, err
}

func (a *accountUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	username string,
	secretType accountDomain.SecretType,
	candidate string,
) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Authenticate(ctx, username, secretType, candidate)
	metrics.Observe(ctx, a.metrics, component, "authenticate", start, err)
	return account, err
}
