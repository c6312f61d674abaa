package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	tokenUseCase "github.com/allisson/keyosk/internal/token/usecase"
)

// RunIssueToken mints a token for an account without checking a secret. The grants
// resolved for secretType decide the permission masks. A non-zero lifespan shortens the
// domain's access lifespan.
func RunIssueToken(
	ctx context.Context,
	accounts AccountFinder,
	tokenUC tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	accountRef string,
	domainRef string,
	secretType string,
	withRefresh bool,
	lifespan time.Duration,
	format string,
) error {
	st := accountDomain.SecretType(secretType)
	if !st.Valid() {
		return fmt.Errorf("invalid secret type: %s (valid options: client, server)", secretType)
	}
	if lifespan < 0 {
		return fmt.Errorf("invalid lifespan: %s (must not be negative)", lifespan)
	}

	account, err := resolveAccount(ctx, accounts, accountRef)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}

	result, err := tokenUC.Issue(ctx, account.ID, domainRef, st, withRefresh, lifespan)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	if format == "json" {
		out := map[string]any{
			"jti":          result.Token.ID.String(),
			"access_token": result.AccessToken,
			"expires_at":   result.Token.Expires.Format(time.RFC3339),
		}
		if result.RefreshToken != "" {
			out["refresh_token"] = result.RefreshToken
		}
		writeJSON(writer, out)
	} else {
		_, _ = fmt.Fprintf(writer, "Token ID: %s\n", result.Token.ID.String())
		_, _ = fmt.Fprintf(writer, "Expires: %s\n", result.Token.Expires.Format(time.RFC3339))
		_, _ = fmt.Fprintf(writer, "Access token: %s\n", result.AccessToken)
		if result.RefreshToken != "" {
			_, _ = fmt.Fprintf(writer, "Refresh token: %s\n", result.RefreshToken)
		}
	}

	logger.Info("token issued",
		slog.String("jti", result.Token.ID.String()),
		slog.String("account_id", account.ID.String()),
		slog.String("domain", domainRef),
	)

	return nil
}

// RunRevokeToken revokes a token by jti.
func RunRevokeToken(
	ctx context.Context,
	tokenUC tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	jti string,
) error {
	tokenID, err := uuid.Parse(jti)
	if err != nil {
		return fmt.Errorf("invalid token id: %w", err)
	}

	if err := tokenUC.Revoke(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Token %s revoked\n", tokenID.String())
	logger.Info("token revoked", slog.String("jti", tokenID.String()))

	return nil
}
