package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// TokenResponse is the result of an authentication or refresh. Refresh fields are
// omitted when no refresh token was issued.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`
}

// MapIssueResultToResponse converts a freshly issued token.
func MapIssueResultToResponse(result *tokenDomain.IssueResult) TokenResponse {
	resp := TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(result.Token.Expires.Sub(result.Token.Issued) / time.Second),
	}
	if result.RefreshToken != "" && result.Token.RefreshExpires != nil {
		resp.RefreshToken = result.RefreshToken
		resp.RefreshExpiresIn = int64(result.Token.RefreshExpires.Sub(result.Token.Issued) / time.Second)
	}
	return resp
}

// TokenRecordResponse is the audit view of an issued token. It never carries the token
// or refresh values.
type TokenRecordResponse struct {
	ID             string          `json:"id"`
	AccountID      *string         `json:"account_id"`
	DomainID       *string         `json:"domain_id"`
	Issuer         string          `json:"issuer"`
	Issued         time.Time       `json:"issued"`
	Expires        time.Time       `json:"expires"`
	Revoked        bool            `json:"revoked"`
	State          string          `json:"state"`
	SecretType     string          `json:"secret_type"`
	RefreshExpires *time.Time      `json:"refresh_expires,omitempty"`
	Claims         json.RawMessage `json:"claims"`
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// MapTokenToResponse converts a token record at now.
func MapTokenToResponse(token *tokenDomain.Token, now time.Time) TokenRecordResponse {
	claims := json.RawMessage(token.Claims)
	if len(claims) == 0 {
		claims = json.RawMessage("{}")
	}
	return TokenRecordResponse{
		ID:             token.ID.String(),
		AccountID:      idString(token.AccountID),
		DomainID:       idString(token.DomainID),
		Issuer:         token.Issuer,
		Issued:         token.Issued,
		Expires:        token.Expires,
		Revoked:        token.Revoked,
		State:          string(token.State(now)),
		SecretType:     string(token.SecretType),
		RefreshExpires: token.RefreshExpires,
		Claims:         claims,
	}
}

// ListTokensResponse is a page of token records.
type ListTokensResponse struct {
	Data []TokenRecordResponse `json:"data"`
}

// MapTokensToListResponse converts token records at now.
func MapTokensToListResponse(tokens []*tokenDomain.Token, now time.Time) ListTokensResponse {
	data := make([]TokenRecordResponse, 0, len(tokens))
	for _, token := range tokens {
		data = append(data, MapTokenToResponse(token, now))
	}
	return ListTokensResponse{Data: data}
}

// BlacklistEntryResponse is one revoked token id with the time it stops mattering.
type BlacklistEntryResponse struct {
	JTI     string    `json:"jti"`
	Expires time.Time `json:"expires"`
}

// BlacklistResponse lists revoked unexpired tokens.
type BlacklistResponse struct {
	Data []BlacklistEntryResponse `json:"data"`
}

// MapTokensToBlacklistResponse converts revoked tokens.
func MapTokensToBlacklistResponse(tokens []*tokenDomain.Token) BlacklistResponse {
	data := make([]BlacklistEntryResponse, 0, len(tokens))
	for _, token := range tokens {
		data = append(data, BlacklistEntryResponse{JTI: token.ID.String(), Expires: token.Expires})
	}
	return BlacklistResponse{Data: data}
}
