// Package usecase issues, refreshes, verifies and revokes tokens.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
	tokenService "github.com/allisson/keyosk/internal/token/service"
)

// TokenRepository persists issued tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *tokenDomain.Token) error
	// Get returns ErrTokenNotFound when no token has the id.
	Get(ctx context.Context, tokenID uuid.UUID) (*tokenDomain.Token, error)
	// GetByRefreshHash returns ErrTokenNotFound when no token holds the refresh hash.
	GetByRefreshHash(ctx context.Context, refreshHash string) (*tokenDomain.Token, error)
	Revoke(ctx context.Context, tokenID uuid.UUID) error
	// RevokeIfActive returns ErrTokenNotFound when the token is missing or already revoked.
	RevokeIfActive(ctx context.Context, tokenID uuid.UUID) error
	ListByDomain(ctx context.Context, domainID uuid.UUID, offset, limit int) ([]*tokenDomain.Token, error)
	ListRevoked(ctx context.Context, now time.Time) ([]*tokenDomain.Token, error)
	CountExpired(ctx context.Context, before time.Time) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AccountReader loads and authenticates accounts.
type AccountReader interface {
	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)
	Authenticate(
		ctx context.Context,
		username string,
		secretType accountDomain.SecretType,
		candidate string,
	) (*accountDomain.Account, error)
}

// Registry resolves domains and their permission sets.
type Registry interface {
	Resolve(ctx context.Context, ref string) (*registryDomain.Domain, error)
	ListPermissions(ctx context.Context, domainID uuid.UUID) ([]*registryDomain.Permission, error)
}

// GrantResolver returns the grants that feed token masks.
type GrantResolver interface {
	GrantsForAccountInDomain(
		ctx context.Context,
		accountID, domainID uuid.UUID,
		secretType accountDomain.SecretType,
	) ([]*aclDomain.ResolvedGrant, error)
}

// Issuer mints and verifies tokens. *service.Engine implements it.
type Issuer interface {
	Issue(input *tokenService.IssueInput) (*tokenDomain.IssueResult, error)
	HashRefreshToken(plainToken string) string
	Verify(token string) (*tokenDomain.Claims, error)
	PublicKeyPEM() ([]byte, bool)
}

// TokenUseCase is the token lifecycle.
type TokenUseCase interface {
	// Authenticate checks credentials against a domain and issues a token. Unknown
	// usernames, wrong secrets, disabled accounts or domains and secret types the domain
	// does not allow all yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, input *tokenDomain.AuthenticateInput) (*tokenDomain.IssueResult, error)

	// Issue mints a token for an account without checking a secret. A positive
	// lifespan shorter than the domain's access lifespan overrides it.
	Issue(
		ctx context.Context,
		accountID uuid.UUID,
		ref string,
		secretType accountDomain.SecretType,
		withRefresh bool,
		lifespan time.Duration,
	) (*tokenDomain.IssueResult, error)

	// Refresh exchanges a refresh token for a new token carrying re-resolved grants.
	// The old token is revoked in the same transaction.
	Refresh(ctx context.Context, ref string, refreshToken string) (*tokenDomain.IssueResult, error)

	// Verify checks signature and expiry, then the blacklist.
	Verify(ctx context.Context, token string) (*tokenDomain.Claims, error)

	Get(ctx context.Context, tokenID uuid.UUID) (*tokenDomain.Token, error)

	// Revoke marks a token revoked. Revoking twice succeeds.
	Revoke(ctx context.Context, tokenID uuid.UUID) error

	// ListByDomain returns the tokens issued for a domain, newest first.
	ListByDomain(ctx context.Context, ref string, offset, limit int) ([]*tokenDomain.Token, error)

	// ListRevoked returns revoked tokens that have not expired yet.
	ListRevoked(ctx context.Context) ([]*tokenDomain.Token, error)

	// CleanupExpired deletes tokens whose access and refresh lifetimes ended more than
	// days ago. With dryRun it only counts them.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)

	// PublicKey returns the PEM verification key. Symmetric signers have none.
	PublicKey(ctx context.Context) ([]byte, error)
}
