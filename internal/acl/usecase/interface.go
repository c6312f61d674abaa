// Package usecase manages ACL grants and resolves the grants fed to token issuance.
package usecase

import (
	"context"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

// GrantRepository persists ACL grants.
type GrantRepository interface {
	Upsert(ctx context.Context, grant *aclDomain.Grant) error
	Delete(ctx context.Context, accountID, accessListID, permissionID uuid.UUID) error
	DeleteForAccountInDomain(ctx context.Context, accountID, domainID uuid.UUID) error
	ListForAccountInDomain(ctx context.Context, accountID, domainID uuid.UUID) ([]*aclDomain.ResolvedGrant, error)
}

// AccountReader looks accounts up.
type AccountReader interface {
	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)
}

// Registry is the part of the domain registry grants are resolved against.
type Registry interface {
	Resolve(ctx context.Context, ref string) (*registryDomain.Domain, error)
	ListAccessLists(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.AccessList, error)
	ListPermissions(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.Permission, error)
}

// GrantUseCase manages the ACL of accounts. Access lists and permissions are named
// within the domain given by ref, a domain id or name.
type GrantUseCase interface {
	// Grant creates or updates one grant. A grant with both secret type flags off is
	// stored but logged as a warning since it never takes effect.
	Grant(ctx context.Context, accountID uuid.UUID, ref string, input aclDomain.GrantInput) (*aclDomain.ResolvedGrant, error)

	// Revoke deletes one grant. Revoking a grant that does not exist succeeds.
	Revoke(ctx context.Context, accountID uuid.UUID, ref string, accessList, permission string) error

	// ReplaceGrants makes the grants of the account under the domain exactly inputs,
	// in one transaction.
	ReplaceGrants(
		ctx context.Context,
		accountID uuid.UUID,
		ref string,
		inputs []aclDomain.GrantInput,
	) ([]*aclDomain.ResolvedGrant, error)

	// ListGrants returns every grant of the account under the domain.
	ListGrants(ctx context.Context, accountID uuid.UUID, ref string) ([]*aclDomain.ResolvedGrant, error)

	// GrantsForAccountInDomain returns the grants of the account under the domain that
	// are active for secretType.
	GrantsForAccountInDomain(
		ctx context.Context,
		accountID, domainID uuid.UUID,
		secretType accountDomain.SecretType,
	) ([]*aclDomain.ResolvedGrant, error)
}
