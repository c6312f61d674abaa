package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	accountUseCase "github.com/allisson/keyosk/internal/account/usecase"
)

// RunCreateAccount creates an account and prints its id together with the generated
// server secret, which is shown only once.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAccount(
	ctx context.Context,
	accountUC accountUseCase.AccountUseCase,
	logger *slog.Logger,
	writer io.Writer,
	username string,
	clientSecret string,
	enabled bool,
	format string,
) error {
	input := &accountDomain.CreateAccountInput{
		Username:     username,
		ClientSecret: clientSecret,
		Enabled:      enabled,
	}
	if err := input.Validate(); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	logger.Info("creating new account", slog.String("username", username))

	output, err := accountUC.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]any{
			"account_id":    output.Account.ID.String(),
			"username":      output.Account.Username,
			"enabled":       output.Account.Enabled,
			"server_secret": output.ServerSecret,
		})
	} else {
		_, _ = fmt.Fprintln(writer, "\nAccount created successfully!")
		_, _ = fmt.Fprintf(writer, "Account ID: %s\n", output.Account.ID.String())
		_, _ = fmt.Fprintf(writer, "Username: %s\n", output.Account.Username)
		_, _ = fmt.Fprintf(writer, "Server secret: %s\n", output.ServerSecret)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The server secret is shown only once. Store it securely.")
	}

	logger.Info("account created successfully",
		slog.String("account_id", output.Account.ID.String()),
		slog.String("username", username),
	)

	return nil
}

// RunRotateServerSecret replaces the server secret of an account, referenced by id
// or username, and prints the new secret.
func RunRotateServerSecret(
	ctx context.Context,
	accountUC accountUseCase.AccountUseCase,
	logger *slog.Logger,
	writer io.Writer,
	accountRef string,
	format string,
) error {
	account, err := resolveAccount(ctx, accountUC, accountRef)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}

	secret, err := accountUC.RegenerateServerSecret(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("failed to rotate server secret: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]string{
			"account_id":    account.ID.String(),
			"server_secret": secret,
		})
	} else {
		_, _ = fmt.Fprintf(writer, "Server secret rotated for %s\n", account.Username)
		_, _ = fmt.Fprintf(writer, "Server secret: %s\n", secret)
	}

	logger.Info("server secret rotated", slog.String("account_id", account.ID.String()))

	return nil
}
