package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyosk/cmd/app/commands"
	"github.com/allisson/keyosk/internal/app"
	"github.com/allisson/keyosk/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the API server (and the metrics server when enabled)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Migrate the database schema",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "migrations-path",
					Value: "migrations",
					Usage: "Directory holding the postgresql and mysql migrations",
				},
				&cli.IntFlag{
					Name:  "steps",
					Usage: "Apply n migrations, or roll back n when negative (0 applies all)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.DBDriver,
					cfg.DBConnectionString,
					commands.MigrateOptions{
						Dir:   cmd.String("migrations-path"),
						Steps: int(cmd.Int("steps")),
					},
				)
			},
		},
	}
}
