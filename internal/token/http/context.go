// Package http serves authentication, refresh, public key, blacklist and audit
// endpoints, and provides the bearer token middleware guarding the admin API.
package http

import (
	"context"

	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// claimsKey is a context key type for storing verified token claims.
type claimsKey struct{}

// WithClaims stores verified claims in the context.
func WithClaims(ctx context.Context, claims *tokenDomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves verified claims from the context.
func GetClaims(ctx context.Context) (*tokenDomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*tokenDomain.Claims)
	return claims, ok && claims != nil
}
