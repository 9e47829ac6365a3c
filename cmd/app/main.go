package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/trinventory/internal"
	pkgconfig "github.com/starford/trinventory/pkg/config"
)

type runner func(ctx context.Context, opts ...internal.Option) error

// action loads the configuration and hands it to run.
func action(run runner) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		return run(ctx, internal.WithConfig(cfg))
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "trinventory",
		Usage:  "Build the technical report inventory table from notebook info cards",
		Action: action(internal.Run),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "trinventory.yaml",
				Value:       "trinventory.yaml",
				Sources:     cli.EnvVars("TRINVENTORY_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Write the inventory table (default)",
				Action: action(internal.Run),
			},
			{
				Name:   "check",
				Usage:  "Validate every report card without writing the table",
				Action: action(internal.Check),
			},
			{
				Name:   "watch",
				Usage:  "Rebuild the table whenever a report notebook changes",
				Action: action(internal.Watch),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
