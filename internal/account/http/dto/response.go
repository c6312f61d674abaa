package dto

import (
	"time"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
)

// AccountResponse is an account without its secret hashes.
type AccountResponse struct {
	ID              string         `json:"id"`
	Username        string         `json:"username"`
	Enabled         bool           `json:"enabled"`
	HasClientSecret bool           `json:"has_client_secret"`
	Extras          map[string]any `json:"extras"`
	Created         time.Time      `json:"created"`
	Updated         time.Time      `json:"updated"`
}

// MapAccountToResponse converts a domain account to its API shape.
func MapAccountToResponse(account *accountDomain.Account) AccountResponse {
	extras := account.Extras
	if extras == nil {
		extras = map[string]any{}
	}
	return AccountResponse{
		ID:              account.ID.String(),
		Username:        account.Username,
		Enabled:         account.Enabled,
		HasClientSecret: account.ClientSecretHash != "",
		Extras:          extras,
		Created:         account.Created,
		Updated:         account.Updated,
	}
}

// CreateAccountResponse carries the new account and its server secret, shown once.
type CreateAccountResponse struct {
	AccountResponse
	ServerSecret string `json:"server_secret"` //nolint:gosec // returned once on creation
}

// ServerSecretResponse is returned when the server secret is regenerated.
type ServerSecretResponse struct {
	ServerSecret string `json:"server_secret"` //nolint:gosec // returned once on rotation
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Data []AccountResponse `json:"data"`
}

// MapAccountsToListResponse converts a page of accounts.
func MapAccountsToListResponse(accounts []*accountDomain.Account) ListAccountsResponse {
	data := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, MapAccountToResponse(account))
	}
	return ListAccountsResponse{Data: data}
}
