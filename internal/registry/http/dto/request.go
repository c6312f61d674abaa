// Package dto holds the JSON shapes of the domain endpoints.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

// DomainSettingsRequest carries the editable fields of a domain. Lifespans are whole
// seconds.
type DomainSettingsRequest struct {
	Name                string `json:"name"`
	Audience            string `json:"audience"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	Contact             string `json:"contact"`
	Enabled             bool   `json:"enabled"`
	EnableClientSetAuth bool   `json:"enable_client_set_auth"`
	EnableServerSetAuth bool   `json:"enable_server_set_auth"`
	EnableRefresh       bool   `json:"enable_refresh"`
	LifespanAccess      int64  `json:"lifespan_access"`
	LifespanRefresh     int64  `json:"lifespan_refresh"`
}

// Validate checks the fields that do not depend on the naming rules.
func (r *DomainSettingsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Audience, validation.Required),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.LifespanAccess, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.LifespanRefresh, validation.Min(int64(0))),
	)
}

// ToSettings converts the request to domain settings.
func (r *DomainSettingsRequest) ToSettings() *registryDomain.DomainSettings {
	return &registryDomain.DomainSettings{
		Name:                r.Name,
		Audience:            r.Audience,
		Title:               r.Title,
		Description:         r.Description,
		Contact:             r.Contact,
		Enabled:             r.Enabled,
		EnableClientSetAuth: r.EnableClientSetAuth,
		EnableServerSetAuth: r.EnableServerSetAuth,
		EnableRefresh:       r.EnableRefresh,
		LifespanAccess:      time.Duration(r.LifespanAccess) * time.Second,
		LifespanRefresh:     time.Duration(r.LifespanRefresh) * time.Second,
	}
}

// CreateDomainRequest is the body of POST /v1/domains.
type CreateDomainRequest struct {
	DomainSettingsRequest
	AccessLists []string                         `json:"access_lists"`
	Permissions []registryDomain.PermissionInput `json:"permissions"`
	Admin       *registryDomain.DomainAdminInput `json:"admin"`
}

// ToInput converts the request to a create domain input.
func (r *CreateDomainRequest) ToInput() *registryDomain.CreateDomainInput {
	return &registryDomain.CreateDomainInput{
		DomainSettings: *r.ToSettings(),
		AccessLists:    r.AccessLists,
		Permissions:    r.Permissions,
		Admin:          r.Admin,
	}
}

// NameRequest is the body of POST /v1/domains/:ref/access-lists.
type NameRequest struct {
	Name string `json:"name"`
}

// Validate checks the name request.
func (r *NameRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
	)
}

// AddPermissionRequest is the body of POST /v1/domains/:ref/permissions.
type AddPermissionRequest struct {
	Name     string `json:"name"`
	BitIndex *int   `json:"bitindex"`
}

// Validate checks the add permission request.
func (r *AddPermissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.BitIndex, validation.NotNil),
	)
}

// ReplacePermissionsRequest is the body of PUT /v1/domains/:ref/permissions.
type ReplacePermissionsRequest struct {
	Permissions []registryDomain.PermissionInput `json:"permissions"`
}

// Validate checks the replace permissions request. An empty set is allowed and clears
// the domain's permissions.
func (r *ReplacePermissionsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Permissions, validation.Length(0, registryDomain.MaxPermissions)),
	)
}
