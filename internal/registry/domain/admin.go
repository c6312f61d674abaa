package domain

import (
	"github.com/google/uuid"
)

// Action is an administrative operation checked against a bearer token. Its string
// value doubles as the permission name looked up in the global admin domain.
type Action string

const (
	ActionDomainRead    Action = "domain-read"
	ActionDomainCreate  Action = "domain-create"
	ActionDomainUpdate  Action = "domain-update"
	ActionDomainDelete  Action = "domain-delete"
	ActionAccountCreate Action = "account-create"
	ActionAccountRead   Action = "account-read"
	ActionAccountUpdate Action = "account-update"
	ActionAccountDelete Action = "account-delete"
	ActionTokenRevoke   Action = "token-revoke"
)

// DomainAdmin names, for one domain, the access list and permissions that let the
// domain's own tokens administer it. Unset references grant nothing.
type DomainAdmin struct {
	DomainID      uuid.UUID
	AccessListID  *uuid.UUID
	DomainRead    *uuid.UUID
	DomainUpdate  *uuid.UUID
	AccountCreate *uuid.UUID
	AccountRead   *uuid.UUID
	AccountDelete *uuid.UUID
}

// PermissionFor returns the permission configured for action, or nil when the action
// cannot be delegated to domain admins. Account updates and secret rotation are never
// delegable; account-delete only unassigns an account from the admin's domain.
func (a *DomainAdmin) PermissionFor(action Action) *uuid.UUID {
	if a == nil {
		return nil
	}
	switch action {
	case ActionDomainRead:
		return a.DomainRead
	case ActionDomainUpdate:
		return a.DomainUpdate
	case ActionAccountCreate:
		return a.AccountCreate
	case ActionAccountRead:
		return a.AccountRead
	case ActionAccountDelete:
		return a.AccountDelete
	}
	return nil
}

// DomainAdminInput references the admin access list and permissions by name.
type DomainAdminInput struct {
	AccessList    string `json:"access_list"    yaml:"access_list"`
	DomainRead    string `json:"domain_read"    yaml:"domain_read"`
	DomainUpdate  string `json:"domain_update"  yaml:"domain_update"`
	AccountCreate string `json:"account_create" yaml:"account_create"`
	AccountRead   string `json:"account_read"   yaml:"account_read"`
	AccountDelete string `json:"account_delete" yaml:"account_delete"`
}
