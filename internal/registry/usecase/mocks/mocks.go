// Package mocks provides testify mocks of the registry use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

// MockDomainUseCase is a mock of usecase.DomainUseCase.
type MockDomainUseCase struct {
	mock.Mock
}

func (m *MockDomainUseCase) Create(
	ctx context.Context,
	input *registryDomain.CreateDomainInput,
) (*registryDomain.DomainDetail, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.DomainDetail), args.Error(1)
}

func (m *MockDomainUseCase) Resolve(ctx context.Context, ref string) (*registryDomain.Domain, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.Domain), args.Error(1)
}

func (m *MockDomainUseCase) GetDetail(ctx context.Context, ref string) (*registryDomain.DomainDetail, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.DomainDetail), args.Error(1)
}

func (m *MockDomainUseCase) List(ctx context.Context, offset, limit int) ([]*registryDomain.Domain, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registryDomain.Domain), args.Error(1)
}

func (m *MockDomainUseCase) Update(
	ctx context.Context,
	ref string,
	settings *registryDomain.DomainSettings,
) (*registryDomain.Domain, error) {
	args := m.Called(ctx, ref, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.Domain), args.Error(1)
}

func (m *MockDomainUseCase) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MockDomainUseCase) AddAccessList(
	ctx context.Context,
	ref string,
	name string,
) (*registryDomain.AccessList, error) {
	args := m.Called(ctx, ref, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.AccessList), args.Error(1)
}

func (m *MockDomainUseCase) ListAccessLists(
	ctx context.Context,
	domainID uuid.UUID,
) ([]*registryDomain.AccessList, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registryDomain.AccessList), args.Error(1)
}

func (m *MockDomainUseCase) AddPermission(
	ctx context.Context,
	ref string,
	input registryDomain.PermissionInput,
) (*registryDomain.Permission, error) {
	args := m.Called(ctx, ref, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.Permission), args.Error(1)
}

func (m *MockDomainUseCase) ReplacePermissions(
	ctx context.Context,
	ref string,
	permissions []registryDomain.PermissionInput,
) ([]*registryDomain.Permission, error) {
	args := m.Called(ctx, ref, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registryDomain.Permission), args.Error(1)
}

func (m *MockDomainUseCase) ListPermissions(
	ctx context.Context,
	domainID uuid.UUID,
) ([]*registryDomain.Permission, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registryDomain.Permission), args.Error(1)
}

func (m *MockDomainUseCase) SetAdmin(
	ctx context.Context,
	ref string,
	input *registryDomain.DomainAdminInput,
) (*registryDomain.DomainAdmin, error) {
	args := m.Called(ctx, ref, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.DomainAdmin), args.Error(1)
}

func (m *MockDomainUseCase) GetAdmin(ctx context.Context, domainID uuid.UUID) (*registryDomain.DomainAdmin, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.DomainAdmin), args.Error(1)
}
