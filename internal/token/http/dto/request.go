// Package dto holds the JSON shapes of the authentication, blacklist and audit endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
	customValidation "github.com/allisson/keyosk/internal/validation"
)

// AuthenticateRequest is the body of POST /v1/auth/:domain.
type AuthenticateRequest struct {
	Username   string `json:"username"`
	Secret     string `json:"secret"`
	SecretType string `json:"secret_type"`
	Refresh    bool   `json:"refresh"`
}

// Validate checks the authentication request.
func (r *AuthenticateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Secret, validation.Required, validation.Length(1, 1024)),
		validation.Field(&r.SecretType,
			validation.Required,
			validation.In(string(accountDomain.SecretTypeClient), string(accountDomain.SecretTypeServer)),
		),
	)
}

// ToInput converts the request for the domain referenced by ref.
func (r *AuthenticateRequest) ToInput(ref string) *tokenDomain.AuthenticateInput {
	return &tokenDomain.AuthenticateInput{
		Domain:     ref,
		Username:   r.Username,
		Secret:     r.Secret,
		SecretType: accountDomain.SecretType(r.SecretType),
		Refresh:    r.Refresh,
	}
}

// RefreshRequest is the body of POST /v1/auth/:domain/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate checks the refresh request.
func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required, validation.Length(1, 256)),
	)
}

// RevokeRequest is the body of POST /v1/blacklist.
type RevokeRequest struct {
	JTI string `json:"jti"`
}

// Validate checks the revoke request.
func (r *RevokeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.JTI, validation.Required, customValidation.UUID),
	)
}
