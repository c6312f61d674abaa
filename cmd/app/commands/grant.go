package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	aclUseCase "github.com/allisson/keyosk/internal/acl/usecase"
)

// RunGrant grants an account, referenced by id or username, a permission on an access
// list of a domain. The secret type flags decide which tokens carry the bit.
func RunGrant(
	ctx context.Context,
	accounts AccountFinder,
	grantUC aclUseCase.GrantUseCase,
	logger *slog.Logger,
	writer io.Writer,
	accountRef string,
	domainRef string,
	input aclDomain.GrantInput,
	format string,
) error {
	account, err := resolveAccount(ctx, accounts, accountRef)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}

	grant, err := grantUC.Grant(ctx, account.ID, domainRef, input)
	if err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]any{
			"account_id":         account.ID.String(),
			"access_list":        grant.AccessList,
			"permission":         grant.Permission,
			"bitindex":           grant.BitIndex,
			"with_server_secret": grant.WithServerSecret,
			"with_client_secret": grant.WithClientSecret,
		})
	} else {
		_, _ = fmt.Fprintf(writer, "Granted %s/%s (bit %d) to %s\n",
			grant.AccessList, grant.Permission, grant.BitIndex, account.Username)
		if grant.Inert() {
			_, _ = fmt.Fprintln(writer, "WARNING: neither secret type is enabled, the grant has no effect.")
		}
	}

	logger.Info("permission granted",
		slog.String("account_id", account.ID.String()),
		slog.String("domain", domainRef),
		slog.String("access_list", grant.AccessList),
		slog.String("permission", grant.Permission),
	)

	return nil
}

// RunRevoke removes one grant of an account. Revoking a missing grant succeeds.
func RunRevoke(
	ctx context.Context,
	accounts AccountFinder,
	grantUC aclUseCase.GrantUseCase,
	logger *slog.Logger,
	writer io.Writer,
	accountRef string,
	domainRef string,
	accessList string,
	permission string,
) error {
	account, err := resolveAccount(ctx, accounts, accountRef)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}

	if err := grantUC.Revoke(ctx, account.ID, domainRef, accessList, permission); err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Revoked %s/%s from %s\n", accessList, permission, account.Username)

	logger.Info("permission revoked",
		slog.String("account_id", account.ID.String()),
		slog.String("domain", domainRef),
		slog.String("access_list", accessList),
		slog.String("permission", permission),
	)

	return nil
}
