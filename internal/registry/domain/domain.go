// Package domain defines tenants (domains), their access lists and their bit-indexed
// permissions, plus the rules that keep a domain's permission set packable into a
// single integer mask.
package domain

import (
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
)

// Domain is an application boundary. Its audience becomes the aud claim of every token
// issued for it.
type Domain struct {
	ID                  uuid.UUID
	Name                string
	Audience            string
	Title               string
	Description         string
	Contact             string
	Enabled             bool
	EnableClientSetAuth bool
	EnableServerSetAuth bool
	EnableRefresh       bool
	LifespanAccess      time.Duration
	LifespanRefresh     time.Duration
	Created             time.Time
	Updated             time.Time
}

// AllowsSecretType reports whether accounts may authenticate against the domain with
// the given secret type.
func (d *Domain) AllowsSecretType(secretType accountDomain.SecretType) bool {
	switch secretType {
	case accountDomain.SecretTypeClient:
		return d.EnableClientSetAuth
	case accountDomain.SecretTypeServer:
		return d.EnableServerSetAuth
	}
	return false
}

// AccessList is a named resource scope that permissions are granted against.
type AccessList struct {
	ID       uuid.UUID
	DomainID uuid.UUID
	Name     string
}

// Permission is a named capability. BitIndex is its position in every mask of the
// domain, counted from the most significant bit.
type Permission struct {
	ID       uuid.UUID
	DomainID uuid.UUID
	Name     string
	BitIndex int
}

// DomainDetail is a domain together with everything it owns.
type DomainDetail struct {
	Domain      *Domain
	AccessLists []*AccessList
	// Permissions are ordered by BitIndex.
	Permissions []*Permission
	Admin       *DomainAdmin
}
