package http

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/keyosk/internal/errors"
	"github.com/allisson/keyosk/internal/httputil"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*tokenDomain.Claims, error)
}

// AuthenticationMiddleware verifies the Bearer token of the Authorization header and
// stores its claims in the request context. Missing, malformed, invalid, expired and
// revoked tokens are rejected with 401.
func AuthenticationMiddleware(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if token == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))

		logger.Debug("authentication successful",
			slog.String("subject", claims.Subject),
			slog.String("audience", claims.Audience))

		c.Next()
	}
}
