package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	accountService "github.com/allisson/keyosk/internal/account/service"
	apperrors "github.com/allisson/keyosk/internal/errors"
)

type accountUseCase struct {
	accountRepo AccountRepository
	secretStore accountService.SecretStore
}

// NewAccountUseCase creates an AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, secretStore accountService.SecretStore) AccountUseCase {
	return &accountUseCase{
		accountRepo: accountRepo,
		secretStore: secretStore,
	}
}

func (a *accountUseCase) Create(
	ctx context.Context,
	input *accountDomain.CreateAccountInput,
) (*accountDomain.CreateAccountOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &accountDomain.Account{
		ID:       uuid.Must(uuid.NewV7()),
		Username: input.Username,
		Enabled:  input.Enabled,
		Extras:   input.Extras,
		Created:  now,
		Updated:  now,
	}

	if input.ClientSecret != "" {
		if err := a.secretStore.UpdateClientSecret(account, input.ClientSecret); err != nil {
			return nil, err
		}
	}

	serverSecret, err := a.secretStore.RegenerateServerSecret(account, accountDomain.ServerSecretLength)
	if err != nil {
		return nil, err
	}

	if err := a.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return &accountDomain.CreateAccountOutput{Account: account, ServerSecret: serverSecret}, nil
}

func (a *accountUseCase) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	return a.accountRepo.Get(ctx, accountID)
}

func (a *accountUseCase) GetByUsername(ctx context.Context, username string) (*accountDomain.Account, error) {
	return a.accountRepo.GetByUsername(ctx, username)
}

func (a *accountUseCase) List(ctx context.Context, offset, limit int) ([]*accountDomain.Account, error) {
	return a.accountRepo.List(ctx, offset, limit)
}

func (a *accountUseCase) GetInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
) (*accountDomain.Account, error) {
	return a.accountRepo.GetInDomain(ctx, accountID, domainID)
}

func (a *accountUseCase) ListInDomain(
	ctx context.Context,
	domainID uuid.UUID,
	offset, limit int,
) ([]*accountDomain.Account, error) {
	return a.accountRepo.ListInDomain(ctx, domainID, offset, limit)
}

func (a *accountUseCase) Update(
	ctx context.Context,
	accountID uuid.UUID,
	input *accountDomain.UpdateAccountInput,
) (*accountDomain.Account, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	account, err := a.accountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Username = input.Username
	account.Enabled = input.Enabled
	account.Extras = input.Extras
	account.Touch()

	if err := a.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (a *accountUseCase) Delete(ctx context.Context, accountID uuid.UUID) error {
	return a.accountRepo.Delete(ctx, accountID)
}

func (a *accountUseCase) UpdateClientSecret(ctx context.Context, accountID uuid.UUID, secret string) error {
	account, err := a.accountRepo.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if err := a.secretStore.UpdateClientSecret(account, secret); err != nil {
		return err
	}
	account.Touch()
	return a.accountRepo.Update(ctx, account)
}

func (a *accountUseCase) RegenerateServerSecret(ctx context.Context, accountID uuid.UUID) (string, error) {
	account, err := a.accountRepo.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	plain, err := a.secretStore.RegenerateServerSecret(account, accountDomain.ServerSecretLength)
	if err != nil {
		return "", err
	}
	account.Touch()
	if err := a.accountRepo.Update(ctx, account); err != nil {
		return "", err
	}
	return plain, nil
}

func (a *accountUseCase) Authenticate(
	ctx context.Context,
	username string,
	secretType accountDomain.SecretType,
	candidate string,
) (*accountDomain.Account, error) {
	if !secretType.Valid() {
		return nil, accountDomain.ErrInvalidSecretType
	}

	account, err := a.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, accountDomain.ErrAccountNotFound) {
			a.secretStore.VerifyDummy(candidate)
			return nil, accountDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok := a.secretStore.Verify(secretType, account, candidate)
	if !ok || !account.Enabled {
		return nil, accountDomain.ErrInvalidCredentials
	}
	return account, nil
}
