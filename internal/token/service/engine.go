package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	apperrors "github.com/allisson/keyosk/internal/errors"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// IssueInput carries everything the engine needs to mint a token. Grants must already
// be filtered to the ones active for SecretType.
type IssueInput struct {
	Account     *accountDomain.Account
	Domain      *registryDomain.Domain
	Permissions []*registryDomain.Permission
	Grants      []*aclDomain.ResolvedGrant
	SecretType  accountDomain.SecretType
	// WithRefresh requests a refresh token. It is honored only when the domain enables
	// refresh.
	WithRefresh bool
	// Lifespan shortens the access lifespan of this token. Zero, or anything not shorter
	// than the domain's LifespanAccess, keeps the domain setting.
	Lifespan time.Duration
}

func (in *IssueInput) accessLifespan() time.Duration {
	if in.Lifespan > 0 && in.Lifespan < in.Domain.LifespanAccess {
		return in.Lifespan
	}
	return in.Domain.LifespanAccess
}

// Engine assembles and signs tokens. It does not persist anything: callers store the
// returned record only after Issue succeeded.
type Engine struct {
	signer  Signer
	refresh RefreshTokenService
	issuer  string
	now     func() time.Time
}

// NewEngine creates an Engine stamping issuer on every token.
func NewEngine(signer Signer, refresh RefreshTokenService, issuer string) *Engine {
	return &Engine{
		signer:  signer,
		refresh: refresh,
		issuer:  issuer,
		now:     time.Now,
	}
}

// Issue builds claims, signs them and returns the token record with the client values.
func (e *Engine) Issue(input *IssueInput) (*tokenDomain.IssueResult, error) {
	masks, err := BuildMasks(input.Permissions, input.Grants)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token id")
	}

	issued := e.now().UTC().Truncate(time.Second)
	expires := issued.Add(input.accessLifespan())

	claims := &tokenDomain.Claims{
		ID:          id.String(),
		Subject:     input.Account.Username,
		Audience:    input.Domain.Audience,
		Issuer:      e.issuer,
		ExpiresAt:   expires.Unix(),
		IssuedAt:    issued.Unix(),
		Permissions: masks,
	}

	frozen, err := json.Marshal(claims)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode claims")
	}

	accessToken, err := e.signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	accountID := input.Account.ID
	domainID := input.Domain.ID
	token := &tokenDomain.Token{
		ID:         id,
		AccountID:  &accountID,
		DomainID:   &domainID,
		Issuer:     e.issuer,
		Issued:     issued,
		Expires:    expires,
		Claims:     frozen,
		SecretType: input.SecretType,
	}

	result := &tokenDomain.IssueResult{
		Token:       token,
		Claims:      claims,
		AccessToken: accessToken,
	}

	if input.WithRefresh && input.Domain.EnableRefresh {
		plain, hash, err := e.refresh.Generate()
		if err != nil {
			return nil, err
		}
		refreshExpires := issued.Add(input.Domain.LifespanRefresh)
		token.RefreshHash = &hash
		token.RefreshExpires = &refreshExpires
		result.RefreshToken = plain
	}

	return result, nil
}

// HashRefreshToken returns the stored form of a refresh token presented by a client.
func (e *Engine) HashRefreshToken(plainToken string) string {
	return e.refresh.Hash(plainToken)
}

// Verify checks a compact token with the engine's signer.
func (e *Engine) Verify(token string) (*tokenDomain.Claims, error) {
	return e.signer.Verify(token)
}

// PublicKeyPEM returns the verification key of the signer, when it has one.
func (e *Engine) PublicKeyPEM() ([]byte, bool) {
	return e.signer.PublicKeyPEM()
}
