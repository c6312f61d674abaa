// Package mocks provides testify mocks of the ACL use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
)

// MockGrantUseCase is a mock of usecase.GrantUseCase.
type MockGrantUseCase struct {
	mock.Mock
}

func (m *MockGrantUseCase) Grant(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	input aclDomain.GrantInput,
) (*aclDomain.ResolvedGrant, error) {
	args := m.Called(ctx, accountID, ref, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aclDomain.ResolvedGrant), args.Error(1)
}

func (m *MockGrantUseCase) Revoke(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	accessList, permission string,
) error {
	return m.Called(ctx, accountID, ref, accessList, permission).Error(0)
}

func (m *MockGrantUseCase) ReplaceGrants(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	inputs []aclDomain.GrantInput,
) ([]*aclDomain.ResolvedGrant, error) {
	args := m.Called(ctx, accountID, ref, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*aclDomain.ResolvedGrant), args.Error(1)
}

func (m *MockGrantUseCase) ListGrants(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
) ([]*aclDomain.ResolvedGrant, error) {
	args := m.Called(ctx, accountID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*aclDomain.ResolvedGrant), args.Error(1)
}

func (m *MockGrantUseCase) GrantsForAccountInDomain(
	ctx context.Context,
	accountID, domainID uuid.UUID,
	secretType accountDomain.SecretType,
) ([]*aclDomain.ResolvedGrant, error) {
	args := m.Called(ctx, accountID, domainID, secretType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*aclDomain.ResolvedGrant), args.Error(1)
}
