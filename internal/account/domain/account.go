// Package domain defines the account model: an identity holding two independent secrets
// (one chosen by the account holder, one issued by the server) and free-form extras.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keyosk/internal/validation"
)

// SecretType identifies which of the two account secrets is used to authenticate.
type SecretType string

const (
	// SecretTypeClient is the password-like secret chosen by the account holder.
	SecretTypeClient SecretType = "client"
	// SecretTypeServer is the opaque secret generated by the server.
	SecretTypeServer SecretType = "server"
)

// Valid reports whether s is one of the known secret types.
func (s SecretType) Valid() bool {
	return s == SecretTypeClient || s == SecretTypeServer
}

// ServerSecretLength is the number of random bytes behind a server-set secret.
const ServerSecretLength = 42

// Account is an identity that authenticates against domains.
type Account struct {
	ID               uuid.UUID
	Username         string
	ClientSecretHash string //nolint:gosec // argon2id hash, not plaintext
	ServerSecretHash string //nolint:gosec // argon2id hash, not plaintext
	Enabled          bool
	Extras           map[string]any
	Created          time.Time
	Updated          time.Time
}

// SecretHash returns the stored hash for the given secret type, or "" when unset.
func (a *Account) SecretHash(secretType SecretType) string {
	switch secretType {
	case SecretTypeClient:
		return a.ClientSecretHash
	case SecretTypeServer:
		return a.ServerSecretHash
	}
	return ""
}

// Touch bumps the updated timestamp. Every mutation of an account calls it.
func (a *Account) Touch() {
	a.Updated = time.Now().UTC()
}

// CreateAccountInput holds the fields accepted when creating an account. ClientSecret
// may be empty, in which case client-set authentication is impossible until one is set.
type CreateAccountInput struct {
	Username     string
	ClientSecret string
	Enabled      bool
	Extras       map[string]any
}

// Validate checks the username, client secret length and extras.
func (in *CreateAccountInput) Validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Username, usernameRules...),
		validation.Field(&in.ClientSecret, validation.Length(0, 1024)),
		validation.Field(&in.Extras, customValidation.ScalarExtras),
	)
	return customValidation.WrapValidationError(err)
}

// CreateAccountOutput carries the new account and the plaintext server secret. The
// secret is returned exactly once.
type CreateAccountOutput struct {
	Account      *Account
	ServerSecret string
}

// UpdateAccountInput holds the mutable profile fields of an account.
type UpdateAccountInput struct {
	Username string
	Enabled  bool
	Extras   map[string]any
}

// Validate checks the username and extras.
func (in *UpdateAccountInput) Validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Username, usernameRules...),
		validation.Field(&in.Extras, customValidation.ScalarExtras),
	)
	return customValidation.WrapValidationError(err)
}

var usernameRules = []validation.Rule{
	validation.Required,
	customValidation.NotBlank,
	customValidation.NoWhitespace,
	validation.Length(1, 255),
}
