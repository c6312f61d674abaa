package domain

import (
	"github.com/allisson/keyosk/internal/errors"
)

// Token errors.
var (
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	ErrInvalidSignature = errors.Wrap(errors.ErrUnauthorized, "invalid token signature")
	ErrTokenExpired     = errors.Wrap(errors.ErrUnauthorized, "token expired")
	ErrTokenRevoked     = errors.Wrap(errors.ErrUnauthorized, "token revoked")

	ErrInvalidRefreshToken = errors.Wrap(errors.ErrUnauthorized, "invalid refresh token")
	ErrRefreshDisabled     = errors.Wrap(errors.ErrInvalidInput, "refresh tokens are disabled for this domain")

	ErrPublicKeyUnavailable = errors.Wrap(errors.ErrNotFound, "the signing algorithm has no public key")
)
