// Package mocks provides testify mocks of the account use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
)

// MockAccountUseCase is a mock of usecase.AccountUseCase.
type MockAccountUseCase struct {
	mock.Mock
}

func (m *MockAccountUseCase) Create(
	ctx context.Context,
	input *accountDomain.CreateAccountInput,
) (*accountDomain.CreateAccountOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.CreateAccountOutput), args.Error(1)
}

func (m *MockAccountUseCase) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *MockAccountUseCase) GetByUsername(ctx context.Context, username string) (*accountDomain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *MockAccountUseCase) List(ctx context.Context, offset, limit int) ([]*accountDomain.Account, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accountDomain.Account), args.Error(1)
}

func (m *MockAccountUseCase) GetInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *MockAccountUseCase) ListInDomain(
	ctx context.Context,
	domainID uuid.UUID,
	offset, limit int,
) ([]*accountDomain.Account, error) {
	args := m.Called(ctx, domainID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accountDomain.Account), args.Error(1)
}

func (m *MockAccountUseCase) Update(
	ctx context.Context,
	accountID uuid.UUID,
	input *accountDomain.UpdateAccountInput,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *MockAccountUseCase) Delete(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountUseCase) UpdateClientSecret(ctx context.Context, accountID uuid.UUID, secret string) error {
	args := m.Called(ctx, accountID, secret)
	return args.Error(0)
}

func (m *MockAccountUseCase) RegenerateServerSecret(ctx context.Context, accountID uuid.UUID) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func (m *MockAccountUseCase) Authenticate(
	ctx context.Context,
	username string,
	secretType accountDomain.SecretType,
	candidate string,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, username, secretType, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}
