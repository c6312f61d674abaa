package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	"github.com/allisson/keyosk/internal/database"
	apperrors "github.com/allisson/keyosk/internal/errors"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
	tokenService "github.com/allisson/keyosk/internal/token/service"
)

type tokenUseCase struct {
	txManager database.TxManager
	tokenRepo TokenRepository
	accounts  AccountReader
	registry  Registry
	grants    GrantResolver
	issuer    Issuer
	blacklist tokenService.Blacklist
	logger    *slog.Logger
	now       func() time.Time
}

// NewTokenUseCase creates a TokenUseCase.
func NewTokenUseCase(
	txManager database.TxManager,
	tokenRepo TokenRepository,
	accounts AccountReader,
	registry Registry,
	grants GrantResolver,
	issuer Issuer,
	blacklist tokenService.Blacklist,
	logger *slog.Logger,
) TokenUseCase {
	return &tokenUseCase{
		txManager: txManager,
		tokenRepo: tokenRepo,
		accounts:  accounts,
		registry:  registry,
		grants:    grants,
		issuer:    issuer,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

// issue resolves permissions and grants, signs, then stores the token. Nothing is
// stored when signing fails.
func (t *tokenUseCase) issue(
	ctx context.Context,
	account *accountDomain.Account,
	domain *registryDomain.Domain,
	secretType accountDomain.SecretType,
	withRefresh bool,
	lifespan time.Duration,
) (*tokenDomain.IssueResult, error) {
	permissions, err := t.registry.ListPermissions(ctx, domain.ID)
	if err != nil {
		return nil, err
	}
	grants, err := t.grants.GrantsForAccountInDomain(ctx, account.ID, domain.ID, secretType)
	if err != nil {
		return nil, err
	}

	result, err := t.issuer.Issue(&tokenService.IssueInput{
		Account:     account,
		Domain:      domain,
		Permissions: permissions,
		Grants:      grants,
		SecretType:  secretType,
		WithRefresh: withRefresh,
		Lifespan:    lifespan,
	})
	if err != nil {
		return nil, err
	}

	if err := t.tokenRepo.Create(ctx, result.Token); err != nil {
		return nil, err
	}
	return result, nil
}

// Authenticate checks the credentials and issues a token.
func (t *tokenUseCase) Authenticate(
	ctx context.Context,
	input *tokenDomain.AuthenticateInput,
) (*tokenDomain.IssueResult, error) {
	if !input.SecretType.Valid() {
		return nil, accountDomain.ErrInvalidSecretType
	}

	domain, err := t.registry.Resolve(ctx, input.Domain)
	if err != nil {
		return nil, err
	}

	account, err := t.accounts.Authenticate(ctx, input.Username, input.SecretType, input.Secret)
	if err != nil {
		return nil, err
	}
	if !domain.Enabled || !domain.AllowsSecretType(input.SecretType) {
		return nil, accountDomain.ErrInvalidCredentials
	}

	return t.issue(ctx, account, domain, input.SecretType, input.Refresh, 0)
}

// Issue mints a token without a secret check.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	accountID uuid.UUID,
	ref string,
	secretType accountDomain.SecretType,
	withRefresh bool,
	lifespan time.Duration,
) (*tokenDomain.IssueResult, error) {
	if !secretType.Valid() {
		return nil, accountDomain.ErrInvalidSecretType
	}

	domain, err := t.registry.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	account, err := t.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return t.issue(ctx, account, domain, secretType, withRefresh, lifespan)
}

// Refresh rotates a refresh token.
func (t *tokenUseCase) Refresh(
	ctx context.Context,
	ref string,
	refreshToken string,
) (*tokenDomain.IssueResult, error) {
	domain, err := t.registry.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !domain.EnableRefresh {
		return nil, tokenDomain.ErrRefreshDisabled
	}

	hash := t.issuer.HashRefreshToken(refreshToken)

	var previous *tokenDomain.Token
	var result *tokenDomain.IssueResult
	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		old, err := t.tokenRepo.GetByRefreshHash(ctx, hash)
		if err != nil {
			if apperrors.Is(err, tokenDomain.ErrTokenNotFound) {
				return tokenDomain.ErrInvalidRefreshToken
			}
			return err
		}
		if old.DomainID == nil || *old.DomainID != domain.ID || old.AccountID == nil ||
			!old.RefreshUsable(t.now()) {
			return tokenDomain.ErrInvalidRefreshToken
		}

		account, err := t.accounts.Get(ctx, *old.AccountID)
		if err != nil {
			if apperrors.Is(err, accountDomain.ErrAccountNotFound) {
				return tokenDomain.ErrInvalidRefreshToken
			}
			return err
		}
		if !account.Enabled || !domain.Enabled || !domain.AllowsSecretType(old.SecretType) {
			return tokenDomain.ErrInvalidRefreshToken
		}

		if err := t.tokenRepo.RevokeIfActive(ctx, old.ID); err != nil {
			if apperrors.Is(err, tokenDomain.ErrTokenNotFound) {
				return tokenDomain.ErrInvalidRefreshToken
			}
			return err
		}

		result, err = t.issue(ctx, account, domain, old.SecretType, true, 0)
		if err != nil {
			return err
		}
		previous = old
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := t.blacklist.Add(ctx, previous.ID, previous.Expires); err != nil {
		t.logger.WarnContext(
			ctx,
			"failed to blacklist rotated token",
			slog.String("token_id", previous.ID.String()),
			slog.Any("error", err),
		)
	}
	return result, nil
}

// Verify checks a bearer token.
func (t *tokenUseCase) Verify(ctx context.Context, token string) (*tokenDomain.Claims, error) {
	claims, err := t.issuer.Verify(token)
	if err != nil {
		return nil, err
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, tokenDomain.ErrInvalidSignature
	}

	revoked, err := t.blacklist.Contains(ctx, jti)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, tokenDomain.ErrTokenRevoked
	}
	return claims, nil
}

// Get returns a token record.
func (t *tokenUseCase) Get(ctx context.Context, tokenID uuid.UUID) (*tokenDomain.Token, error) {
	return t.tokenRepo.Get(ctx, tokenID)
}

// Revoke marks a token revoked and blacklists it until it expires.
func (t *tokenUseCase) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	token, err := t.tokenRepo.Get(ctx, tokenID)
	if err != nil {
		return err
	}
	if !token.Revoked {
		if err := t.tokenRepo.Revoke(ctx, tokenID); err != nil {
			return err
		}
	}
	return t.blacklist.Add(ctx, token.ID, token.Expires)
}

// ListByDomain returns the audit trail of a domain.
func (t *tokenUseCase) ListByDomain(
	ctx context.Context,
	ref string,
	offset, limit int,
) ([]*tokenDomain.Token, error) {
	domain, err := t.registry.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return t.tokenRepo.ListByDomain(ctx, domain.ID, offset, limit)
}

// ListRevoked returns the current blacklist.
func (t *tokenUseCase) ListRevoked(ctx context.Context) ([]*tokenDomain.Token, error) {
	return t.tokenRepo.ListRevoked(ctx, t.now().UTC())
}

// CleanupExpired removes or counts long expired tokens.
func (t *tokenUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be zero or greater")
	}

	before := t.now().UTC().AddDate(0, 0, -days)
	if dryRun {
		return t.tokenRepo.CountExpired(ctx, before)
	}

	deleted, err := t.tokenRepo.DeleteExpired(ctx, before)
	if err != nil {
		return 0, err
	}
	t.logger.InfoContext(ctx, "expired tokens deleted", slog.Int64("count", deleted), slog.Int("days", days))
	return deleted, nil
}

// PublicKey returns the signer's verification key.
func (t *tokenUseCase) PublicKey(ctx context.Context) ([]byte, error) {
	publicKey, ok := t.issuer.PublicKeyPEM()
	if !ok {
		return nil, tokenDomain.ErrPublicKeyUnavailable
	}
	return publicKey, nil
}
