package domain

import (
	"github.com/allisson/keyosk/internal/errors"
)

// Account errors.
var (
	// ErrAccountNotFound indicates no account matches the given id or username.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrInvalidCredentials is returned for every authentication failure: unknown
	// username, wrong secret, disabled account or a secret type the domain does not allow.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidSecretType indicates a secret type other than "client" or "server".
	ErrInvalidSecretType = errors.Wrap(errors.ErrInvalidInput, "invalid secret type")
)
