// Package mocks provides testify doubles for the token use case.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// MockTokenUseCase is a mock implementation of usecase.TokenUseCase.
type MockTokenUseCase struct {
	mock.Mock
}

func issueResult(args mock.Arguments) (*tokenDomain.IssueResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.IssueResult), args.Error(1)
}

func (m *MockTokenUseCase) Authenticate(
	ctx context.Context,
	input *tokenDomain.AuthenticateInput,
) (*tokenDomain.IssueResult, error) {
	return issueResult(m.Called(ctx, input))
}

func (m *MockTokenUseCase) Issue(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	secretType accountDomain.SecretType,
	withRefresh bool,
	lifespan time.Duration,
) (*tokenDomain.IssueResult, error) {
	return issueResult(m.Called(ctx, accountID, ref, secretType, withRefresh, lifespan))
}

func (m *MockTokenUseCase) Refresh(
	ctx context.Context,
	ref string,
	refreshToken string,
) (*tokenDomain.IssueResult, error) {
	return issueResult(m.Called(ctx, ref, refreshToken))
}

func (m *MockTokenUseCase) Verify(ctx context.Context, token string) (*tokenDomain.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Claims), args.Error(1)
}

func (m *MockTokenUseCase) Get(ctx context.Context, tokenID uuid.UUID) (*tokenDomain.Token, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Token), args.Error(1)
}

func (m *MockTokenUseCase) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	return m.Called(ctx, tokenID).Error(0)
}

func (m *MockTokenUseCase) ListByDomain(
	ctx context.Context,
	ref string,
	offset, limit int,
) ([]*tokenDomain.Token, error) {
	args := m.Called(ctx, ref, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tokenDomain.Token), args.Error(1)
}

func (m *MockTokenUseCase) ListRevoked(ctx context.Context) ([]*tokenDomain.Token, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tokenDomain.Token), args.Error(1)
}

func (m *MockTokenUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTokenUseCase) PublicKey(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
