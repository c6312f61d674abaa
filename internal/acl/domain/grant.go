// Package domain defines ACL grants: an account holding a permission on an access list,
// gated by the secret type used to authenticate.
package domain

import (
	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	"github.com/allisson/keyosk/internal/errors"
)

// Grant is one ACL row. Its existence means granted.
type Grant struct {
	AccountID        uuid.UUID
	AccessListID     uuid.UUID
	PermissionID     uuid.UUID
	WithServerSecret bool
	WithClientSecret bool
}

// Inert reports whether the grant can never take effect.
func (g *Grant) Inert() bool {
	return !g.WithServerSecret && !g.WithClientSecret
}

// ResolvedGrant is a grant joined with the names and bit index it refers to.
type ResolvedGrant struct {
	Grant
	AccessList string
	Permission string
	BitIndex   int
}

// ActiveFor reports whether the grant applies to tokens authenticated with secretType.
func (g *Grant) ActiveFor(secretType accountDomain.SecretType) bool {
	switch secretType {
	case accountDomain.SecretTypeServer:
		return g.WithServerSecret
	case accountDomain.SecretTypeClient:
		return g.WithClientSecret
	}
	return false
}

// GrantInput references an access list and a permission of a domain by name.
type GrantInput struct {
	AccessList       string `json:"access_list"        yaml:"access_list"`
	Permission       string `json:"permission"         yaml:"permission"`
	WithServerSecret bool   `json:"with_server_secret" yaml:"with_server_secret"`
	WithClientSecret bool   `json:"with_client_secret" yaml:"with_client_secret"`
}

// ErrUnknownReference is returned when a grant names an access list or permission the
// domain does not have.
var ErrUnknownReference = errors.Wrap(errors.ErrInvalidInput, "unknown access list or permission")
