// Package dto holds the JSON shapes of the account permission endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
)

// GrantRequest is the body of POST /v1/accounts/:id/permissions.
type GrantRequest struct {
	AccessList       string `json:"access_list"`
	Permission       string `json:"permission"`
	WithServerSecret bool   `json:"with_server_secret"`
	WithClientSecret bool   `json:"with_client_secret"`
}

// Validate checks the grant request. The value receiver lets slices of requests be
// validated element by element.
func (r GrantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccessList, validation.Required),
		validation.Field(&r.Permission, validation.Required),
	)
}

// ToInput converts the request to a grant input.
func (r *GrantRequest) ToInput() aclDomain.GrantInput {
	return aclDomain.GrantInput{
		AccessList:       r.AccessList,
		Permission:       r.Permission,
		WithServerSecret: r.WithServerSecret,
		WithClientSecret: r.WithClientSecret,
	}
}

// ReplaceGrantsRequest is the body of PUT /v1/accounts/:id/permissions.
type ReplaceGrantsRequest struct {
	Grants []GrantRequest `json:"grants"`
}

// Validate checks every grant of the request.
func (r *ReplaceGrantsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Grants),
	)
}

// ToInputs converts the request to grant inputs.
func (r *ReplaceGrantsRequest) ToInputs() []aclDomain.GrantInput {
	inputs := make([]aclDomain.GrantInput, 0, len(r.Grants))
	for i := range r.Grants {
		inputs = append(inputs, r.Grants[i].ToInput())
	}
	return inputs
}

// GrantResponse is the API shape of a grant.
type GrantResponse struct {
	AccessList       string `json:"access_list"`
	Permission       string `json:"permission"`
	BitIndex         int    `json:"bitindex"`
	WithServerSecret bool   `json:"with_server_secret"`
	WithClientSecret bool   `json:"with_client_secret"`
}

// ListGrantsResponse wraps the grants of an account under a domain.
type ListGrantsResponse struct {
	Domain string          `json:"domain"`
	Data   []GrantResponse `json:"data"`
}

// MapGrantToResponse converts a resolved grant.
func MapGrantToResponse(grant *aclDomain.ResolvedGrant) GrantResponse {
	return GrantResponse{
		AccessList:       grant.AccessList,
		Permission:       grant.Permission,
		BitIndex:         grant.BitIndex,
		WithServerSecret: grant.WithServerSecret,
		WithClientSecret: grant.WithClientSecret,
	}
}

// MapGrantsToListResponse converts the grants of an account under a domain.
func MapGrantsToListResponse(domain string, grants []*aclDomain.ResolvedGrant) ListGrantsResponse {
	data := make([]GrantResponse, 0, len(grants))
	for _, grant := range grants {
		data = append(data, MapGrantToResponse(grant))
	}
	return ListGrantsResponse{Domain: domain, Data: data}
}
