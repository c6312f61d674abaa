// Package dto holds the JSON shapes of the account endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keyosk/internal/validation"
)

// CreateAccountRequest is the body of POST /v1/accounts.
type CreateAccountRequest struct {
	Username     string         `json:"username"`
	ClientSecret string         `json:"client_secret"`
	Enabled      bool           `json:"enabled"`
	Extras       map[string]any `json:"extras"`
}

// Validate checks the create account request.
func (r *CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&r.ClientSecret, validation.Length(0, 1024)),
		validation.Field(&r.Extras, customValidation.ScalarExtras),
	)
}

// UpdateAccountRequest is the body of PUT /v1/accounts/:id.
type UpdateAccountRequest struct {
	Username string         `json:"username"`
	Enabled  bool           `json:"enabled"`
	Extras   map[string]any `json:"extras"`
}

// Validate checks the update account request.
func (r *UpdateAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&r.Extras, customValidation.ScalarExtras),
	)
}

// UpdateClientSecretRequest is the body of PUT /v1/accounts/:id/client-secret.
type UpdateClientSecretRequest struct {
	ClientSecret string `json:"client_secret"`
}

// Validate checks the client secret request.
func (r *UpdateClientSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientSecret, validation.Required, validation.Length(1, 1024)),
	)
}
