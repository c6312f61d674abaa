package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyosk/cmd/app/commands"
	aclDomain "github.com/allisson/keyosk/internal/acl/domain"
	"github.com/allisson/keyosk/internal/app"
	"github.com/allisson/keyosk/internal/config"
)

func accountFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "account",
		Aliases:  []string{"a"},
		Required: true,
		Usage:    "Account ID (UUID) or username",
	}
}

func domainFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "domain",
		Aliases:  []string{"d"},
		Required: true,
		Usage:    "Domain ID (UUID) or name",
	}
}

func getAdminCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-account",
			Usage: "Create an account and print its server secret",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Unique username",
				},
				&cli.StringFlag{
					Name:    "client-secret",
					Aliases: []string{"s"},
					Usage:   "Client-set secret (omit to leave unset)",
				},
				&cli.BoolFlag{
					Name:  "enabled",
					Value: true,
					Usage: "Whether the account can authenticate immediately",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAccount(
					ctx,
					accountUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("username"),
					cmd.String("client-secret"),
					cmd.Bool("enabled"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-server-secret",
			Usage: "Regenerate the server secret of an account",
			Flags: []cli.Flag{accountFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateServerSecret(
					ctx,
					accountUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-domain",
			Usage: "Create a domain with its access lists and permissions from a YAML file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Path to the YAML domain definition ('-' for stdin)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				io := commands.DefaultIO()
				if path := cmd.String("file"); path != "-" {
					f, err := os.Open(path) //nolint:gosec // operator supplied path
					if err != nil {
						return fmt.Errorf("failed to open domain definition: %w", err)
					}
					defer func() { _ = f.Close() }()
					io.Reader = f
				}

				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				domainUseCase, err := container.DomainUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateDomain(
					ctx,
					domainUseCase,
					container.Logger(),
					io.Reader,
					io.Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "grant",
			Usage: "Grant an account a permission on an access list of a domain",
			Flags: []cli.Flag{
				accountFlag(),
				domainFlag(),
				&cli.StringFlag{
					Name:     "access-list",
					Aliases:  []string{"l"},
					Required: true,
					Usage:    "Access list name",
				},
				&cli.StringFlag{
					Name:     "permission",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Permission name",
				},
				&cli.BoolFlag{
					Name:  "with-server-secret",
					Value: true,
					Usage: "Grant applies to tokens issued with the server secret",
				},
				&cli.BoolFlag{
					Name:  "with-client-secret",
					Usage: "Grant applies to tokens issued with the client secret",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}
				grantUseCase, err := container.GrantUseCase()
				if err != nil {
					return err
				}

				return commands.RunGrant(
					ctx,
					accountUseCase,
					grantUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account"),
					cmd.String("domain"),
					aclDomain.GrantInput{
						AccessList:       cmd.String("access-list"),
						Permission:       cmd.String("permission"),
						WithServerSecret: cmd.Bool("with-server-secret"),
						WithClientSecret: cmd.Bool("with-client-secret"),
					},
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke",
			Usage: "Revoke a permission grant from an account",
			Flags: []cli.Flag{
				accountFlag(),
				domainFlag(),
				&cli.StringFlag{
					Name:     "access-list",
					Aliases:  []string{"l"},
					Required: true,
					Usage:    "Access list name",
				},
				&cli.StringFlag{
					Name:     "permission",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Permission name",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}
				grantUseCase, err := container.GrantUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevoke(
					ctx,
					accountUseCase,
					grantUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account"),
					cmd.String("domain"),
					cmd.String("access-list"),
					cmd.String("permission"),
				)
			},
		},
	}
}
