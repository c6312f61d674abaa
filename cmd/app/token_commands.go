package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyosk/cmd/app/commands"
	"github.com/allisson/keyosk/internal/app"
	"github.com/allisson/keyosk/internal/config"
)

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-token",
			Usage: "Issue a token for an account without checking a secret",
			Flags: []cli.Flag{
				accountFlag(),
				domainFlag(),
				&cli.StringFlag{
					Name:    "secret-type",
					Aliases: []string{"t"},
					Value:   "server",
					Usage:   "Secret type whose grants apply: 'server' or 'client'",
				},
				&cli.BoolFlag{
					Name:    "refresh",
					Aliases: []string{"r"},
					Usage:   "Also issue a refresh token when the domain allows it",
				},
				&cli.DurationFlag{
					Name:    "lifespan",
					Aliases: []string{"l"},
					Usage:   "Access lifespan shorter than the domain's (e.g. 5m); 0 uses the domain's",
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
				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunIssueToken(
					ctx,
					accountUseCase,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account"),
					cmd.String("domain"),
					cmd.String("secret-type"),
					cmd.Bool("refresh"),
					cmd.Duration("lifespan"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-token",
			Usage: "Revoke a token and add it to the blacklist",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "jti",
					Aliases:  []string{"j"},
					Required: true,
					Usage:    "Token ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeToken(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("jti"),
				)
			},
		},
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete tokens whose lifetimes ended more than the given days ago",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete tokens expired for longer than this many days",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many tokens would be deleted without deleting",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredTokens(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
