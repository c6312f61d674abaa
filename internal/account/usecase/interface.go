// Package usecase implements account management and credential checks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
)

// AccountRepository persists accounts. Implementations are transaction aware through
// database.GetTx.
type AccountRepository interface {
	Create(ctx context.Context, account *accountDomain.Account) error
	Update(ctx context.Context, account *accountDomain.Account) error
	// Get returns ErrAccountNotFound when no account has the id.
	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)
	// GetByUsername returns ErrAccountNotFound when no account has the username.
	GetByUsername(ctx context.Context, username string) (*accountDomain.Account, error)
	List(ctx context.Context, offset, limit int) ([]*accountDomain.Account, error)
	// GetInDomain returns ErrAccountNotFound unless the account holds a grant in the domain.
	GetInDomain(ctx context.Context, accountID, domainID uuid.UUID) (*accountDomain.Account, error)
	ListInDomain(ctx context.Context, domainID uuid.UUID, offset, limit int) ([]*accountDomain.Account, error)
	// Delete cascades to ACL grants and clears the account reference of its tokens.
	Delete(ctx context.Context, accountID uuid.UUID) error
}

// AccountUseCase manages accounts and their two secrets.
type AccountUseCase interface {
	// Create stores a new account. The client secret is optional; a server secret is
	// always generated and returned in plaintext exactly once.
	Create(ctx context.Context, input *accountDomain.CreateAccountInput) (*accountDomain.CreateAccountOutput, error)

	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)

	GetByUsername(ctx context.Context, username string) (*accountDomain.Account, error)

	List(ctx context.Context, offset, limit int) ([]*accountDomain.Account, error)

	// GetInDomain returns the account only when it is assigned to the domain, that is
	// when it holds at least one grant on one of the domain's access lists.
	GetInDomain(ctx context.Context, accountID, domainID uuid.UUID) (*accountDomain.Account, error)

	// ListInDomain returns a page of the accounts assigned to the domain.
	ListInDomain(ctx context.Context, domainID uuid.UUID, offset, limit int) ([]*accountDomain.Account, error)

	// Update replaces username, enabled flag and extras, bumping the updated timestamp.
	Update(ctx context.Context, accountID uuid.UUID, input *accountDomain.UpdateAccountInput) (*accountDomain.Account, error)

	Delete(ctx context.Context, accountID uuid.UUID) error

	// UpdateClientSecret rehashes the client-set secret.
	UpdateClientSecret(ctx context.Context, accountID uuid.UUID, secret string) error

	// RegenerateServerSecret replaces the server-set secret and returns the plaintext once.
	RegenerateServerSecret(ctx context.Context, accountID uuid.UUID) (string, error)

	// Authenticate returns the enabled account owning username whose secretType secret
	// matches candidate. Every failure is ErrInvalidCredentials.
	Authenticate(
		ctx context.Context,
		username string,
		secretType accountDomain.SecretType,
		candidate string,
	) (*accountDomain.Account, error)
}
