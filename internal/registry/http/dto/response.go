package dto

import (
	"time"

	"github.com/google/uuid"

	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
)

// DomainResponse is the API shape of a domain. Lifespans are whole seconds.
type DomainResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Audience            string    `json:"audience"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Contact             string    `json:"contact"`
	Enabled             bool      `json:"enabled"`
	EnableClientSetAuth bool      `json:"enable_client_set_auth"`
	EnableServerSetAuth bool      `json:"enable_server_set_auth"`
	EnableRefresh       bool      `json:"enable_refresh"`
	LifespanAccess      int64     `json:"lifespan_access"`
	LifespanRefresh     int64     `json:"lifespan_refresh"`
	Created             time.Time `json:"created"`
	Updated             time.Time `json:"updated"`
}

// MapDomainToResponse converts a domain to its API shape.
func MapDomainToResponse(d *registryDomain.Domain) DomainResponse {
	return DomainResponse{
		ID:                  d.ID.String(),
		Name:                d.Name,
		Audience:            d.Audience,
		Title:               d.Title,
		Description:         d.Description,
		Contact:             d.Contact,
		Enabled:             d.Enabled,
		EnableClientSetAuth: d.EnableClientSetAuth,
		EnableServerSetAuth: d.EnableServerSetAuth,
		EnableRefresh:       d.EnableRefresh,
		LifespanAccess:      int64(d.LifespanAccess / time.Second),
		LifespanRefresh:     int64(d.LifespanRefresh / time.Second),
		Created:             d.Created,
		Updated:             d.Updated,
	}
}

// AccessListResponse is the API shape of an access list.
type AccessListResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MapAccessListToResponse converts an access list.
func MapAccessListToResponse(list *registryDomain.AccessList) AccessListResponse {
	return AccessListResponse{ID: list.ID.String(), Name: list.Name}
}

// PermissionResponse is the API shape of a permission.
type PermissionResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BitIndex int    `json:"bitindex"`
}

// MapPermissionToResponse converts a permission.
func MapPermissionToResponse(perm *registryDomain.Permission) PermissionResponse {
	return PermissionResponse{ID: perm.ID.String(), Name: perm.Name, BitIndex: perm.BitIndex}
}

// MapPermissionsToResponse converts permissions, keeping their order.
func MapPermissionsToResponse(permissions []*registryDomain.Permission) []PermissionResponse {
	data := make([]PermissionResponse, 0, len(permissions))
	for _, perm := range permissions {
		data = append(data, MapPermissionToResponse(perm))
	}
	return data
}

// DomainAdminResponse lists the admin access list and permissions by id.
type DomainAdminResponse struct {
	AccessList    *string `json:"access_list"`
	DomainRead    *string `json:"domain_read"`
	DomainUpdate  *string `json:"domain_update"`
	AccountCreate *string `json:"account_create"`
	AccountRead   *string `json:"account_read"`
	AccountDelete *string `json:"account_delete"`
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// MapDomainAdminToResponse converts admin settings. Nil settings map to an empty object.
func MapDomainAdminToResponse(admin *registryDomain.DomainAdmin) DomainAdminResponse {
	if admin == nil {
		return DomainAdminResponse{}
	}
	return DomainAdminResponse{
		AccessList:    idString(admin.AccessListID),
		DomainRead:    idString(admin.DomainRead),
		DomainUpdate:  idString(admin.DomainUpdate),
		AccountCreate: idString(admin.AccountCreate),
		AccountRead:   idString(admin.AccountRead),
		AccountDelete: idString(admin.AccountDelete),
	}
}

// DomainDetailResponse is a domain with its access lists, permissions and admin settings.
type DomainDetailResponse struct {
	DomainResponse
	AccessLists []AccessListResponse `json:"access_lists"`
	Permissions []PermissionResponse `json:"permissions"`
	Admin       DomainAdminResponse  `json:"admin"`
}

// MapDomainDetailToResponse converts a domain detail.
func MapDomainDetailToResponse(detail *registryDomain.DomainDetail) DomainDetailResponse {
	lists := make([]AccessListResponse, 0, len(detail.AccessLists))
	for _, list := range detail.AccessLists {
		lists = append(lists, MapAccessListToResponse(list))
	}
	return DomainDetailResponse{
		DomainResponse: MapDomainToResponse(detail.Domain),
		AccessLists:    lists,
		Permissions:    MapPermissionsToResponse(detail.Permissions),
		Admin:          MapDomainAdminToResponse(detail.Admin),
	}
}

// ListDomainsResponse wraps a page of domains.
type ListDomainsResponse struct {
	Data []DomainResponse `json:"data"`
}

// MapDomainsToListResponse converts a page of domains.
func MapDomainsToListResponse(domains []*registryDomain.Domain) ListDomainsResponse {
	data := make([]DomainResponse, 0, len(domains))
	for _, d := range domains {
		data = append(data, MapDomainToResponse(d))
	}
	return ListDomainsResponse{Data: data}
}

// ListPermissionsResponse wraps the permissions of a domain.
type ListPermissionsResponse struct {
	Data []PermissionResponse `json:"data"`
}
