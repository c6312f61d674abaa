// Package usecase manages domains together with their access lists, bit-indexed
// permissions and admin settings.
package usecase

import (
	"context"

	"github.com/google/uuid"

	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

// DomainRepository persists domains and their admin settings.
type DomainRepository interface {
	Create(ctx context.Context, d *registryDomain.Domain) error
	Update(ctx context.Context, d *registryDomain.Domain) error
	Get(ctx context.Context, domainID uuid.UUID) (*registryDomain.Domain, error)
	GetByName(ctx context.Context, name string) (*registryDomain.Domain, error)
	List(ctx context.Context, offset, limit int) ([]*registryDomain.Domain, error)
	Delete(ctx context.Context, domainID uuid.UUID) error
	UpsertAdmin(ctx context.Context, admin *registryDomain.DomainAdmin) error
	GetAdmin(ctx context.Context, domainID uuid.UUID) (*registryDomain.DomainAdmin, error)
}

// CatalogRepository persists the access lists and permissions owned by domains.
type CatalogRepository interface {
	CreateAccessList(ctx context.Context, list *registryDomain.AccessList) error
	ListAccessLists(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.AccessList, error)
	GetAccessListByName(ctx context.Context, domainID uuid.UUID, name string) (*registryDomain.AccessList, error)
	CreatePermission(ctx context.Context, perm *registryDomain.Permission) error
	// ListPermissions returns permissions ordered by bit index.
	ListPermissions(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.Permission, error)
	SetBitIndex(ctx context.Context, permissionID uuid.UUID, bitIndex int) error
	ParkBitIndexes(ctx context.Context, domainID uuid.UUID) error
	DeletePermission(ctx context.Context, permissionID uuid.UUID) error
}

// DomainUseCase is the domain and permission registry. Every ref argument accepts a
// domain id or a domain name.
type DomainUseCase interface {
	// Create validates the whole input, then writes the domain, its access lists, its
	// permissions and its admin settings in one transaction.
	Create(ctx context.Context, input *registryDomain.CreateDomainInput) (*registryDomain.DomainDetail, error)

	// Resolve returns the domain referenced by id or name.
	Resolve(ctx context.Context, ref string) (*registryDomain.Domain, error)

	GetDetail(ctx context.Context, ref string) (*registryDomain.DomainDetail, error)

	List(ctx context.Context, offset, limit int) ([]*registryDomain.Domain, error)

	Update(ctx context.Context, ref string, settings *registryDomain.DomainSettings) (*registryDomain.Domain, error)

	// Delete removes the domain with everything it owns.
	Delete(ctx context.Context, ref string) error

	AddAccessList(ctx context.Context, ref string, name string) (*registryDomain.AccessList, error)

	ListAccessLists(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.AccessList, error)

	// AddPermission appends a permission. Its bit index must equal the current
	// permission count.
	AddPermission(
		ctx context.Context,
		ref string,
		input registryDomain.PermissionInput,
	) (*registryDomain.Permission, error)

	// ReplacePermissions makes the permission set of the domain exactly permissions.
	// Permissions are matched by name: kept ones move to their new bit index, missing
	// ones are deleted along with their grants. Nothing is written when the set is
	// invalid.
	ReplacePermissions(
		ctx context.Context,
		ref string,
		permissions []registryDomain.PermissionInput,
	) ([]*registryDomain.Permission, error)

	// ListPermissions returns the permissions of a domain ordered by bit index.
	ListPermissions(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.Permission, error)

	// SetAdmin replaces the admin settings of a domain. An empty access list clears them.
	SetAdmin(ctx context.Context, ref string, input *registryDomain.DomainAdminInput) (*registryDomain.DomainAdmin, error)

	GetAdmin(ctx context.Context, domainID uuid.UUID) (*registryDomain.DomainAdmin, error)
}
