// Package domain defines issued tokens and the claims they carry.
package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PermissionsClaim is the claim key holding the per access list permission masks.
const PermissionsClaim = "ksk-pem"

// Claims is the payload of every access token. Permissions maps an access list name to
// a mask whose most significant bit of the domain's N bits is bit index 0.
type Claims struct {
	ID          string            `json:"jti"`
	Subject     string            `json:"sub"`
	Audience    string            `json:"aud"`
	Issuer      string            `json:"iss"`
	ExpiresAt   int64             `json:"exp"`
	IssuedAt    int64             `json:"iat"`
	Permissions map[string]uint64 `json:"ksk-pem,omitempty"`
}

// Has reports whether the mask of accessList has bitIndex set, for a domain holding
// count permissions.
func (c *Claims) Has(accessList string, bitIndex, count int) bool {
	mask, ok := c.Permissions[accessList]
	if !ok || bitIndex < 0 || bitIndex >= count {
		return false
	}
	return (mask>>(count-1-bitIndex))&1 == 1
}

// GetExpirationTime implements jwt.Claims.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

// GetNotBefore implements jwt.Claims.
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims.
func (c *Claims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

// GetSubject implements jwt.Claims.
func (c *Claims) GetSubject() (string, error) {
	return c.Subject, nil
}

// GetAudience implements jwt.Claims.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) {
	return jwt.ClaimStrings{c.Audience}, nil
}
