package domain

import (
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
)

// RefreshTokenLength is the number of random bytes of a refresh token.
const RefreshTokenLength = 42

// State is the lifecycle position of a token.
type State string

const (
	StateActive  State = "active"
	StateExpired State = "expired"
	StateRevoked State = "revoked"
)

// Token is the persisted record of an issued token. Claims is frozen at issuance; only
// Revoked changes afterwards. AccountID and DomainID become nil when the account or
// domain is deleted.
type Token struct {
	ID             uuid.UUID
	AccountID      *uuid.UUID
	DomainID       *uuid.UUID
	Issuer         string
	Issued         time.Time
	Expires        time.Time
	Revoked        bool
	RefreshHash    *string
	RefreshExpires *time.Time
	Claims         []byte
	SecretType     accountDomain.SecretType
}

// State returns the lifecycle position of the token at now.
func (t *Token) State(now time.Time) State {
	switch {
	case t.Revoked:
		return StateRevoked
	case !now.Before(t.Expires):
		return StateExpired
	}
	return StateActive
}

// RefreshUsable reports whether the refresh token of t may be exchanged at now.
func (t *Token) RefreshUsable(now time.Time) bool {
	return !t.Revoked && t.RefreshHash != nil && t.RefreshExpires != nil && now.Before(*t.RefreshExpires)
}

// IssueResult is a freshly issued token: the record and the values handed to the
// client. RefreshToken is empty when no refresh token was issued.
type IssueResult struct {
	Token        *Token
	Claims       *Claims
	AccessToken  string
	RefreshToken string
}

// AuthenticateInput is a credential check against a domain.
type AuthenticateInput struct {
	// Domain is the domain id or name.
	Domain     string
	Username   string
	Secret     string
	SecretType accountDomain.SecretType
	// Refresh requests a refresh token alongside the access token.
	Refresh bool
}
