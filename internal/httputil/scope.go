package httputil

import (
	"context"

	"github.com/google/uuid"
)

type domainScopeKey struct{}

// WithDomainScope confines the request to the accounts and grants of one domain. It is
// set when a request is authorized through domain admin permissions.
func WithDomainScope(ctx context.Context, domainID uuid.UUID) context.Context {
	return context.WithValue(ctx, domainScopeKey{}, domainID)
}

// DomainScope returns the domain the request is confined to, if any.
func DomainScope(ctx context.Context) (uuid.UUID, bool) {
	domainID, ok := ctx.Value(domainScopeKey{}).(uuid.UUID)
	return domainID, ok
}
