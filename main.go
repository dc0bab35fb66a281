package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/bergundy/nexus-idl/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "nexus-idl",
		Usage:   "Generate Nexus service definitions and types from JSON or YAML schemas",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("NEXUS_IDL_LOG_LEVEL"),
				Value:       "warn",
				Destination: &ctrl.Flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to a nexus-idl.json or nexus-idl.yaml file, searched upward from the working directory by default",
				Destination: &ctrl.Flags.Config,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(ctrl.Flags.LogLevel)
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Aliases:   []string{"gen"},
				Usage:     "Generate code for native and type schemas",
				ArgsUsage: "<schema_path> [<schema_path>...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "lang",
						Aliases:     []string{"l"},
						Usage:       "target language (typescript, ts, go, python, py, java)",
						Destination: &ctrl.Flags.Language,
					},
					&cli.StringSliceFlag{
						Name:        "plugin",
						Aliases:     []string{"p"},
						Usage:       "built-in plugin name or path to a .wasm plugin, repeatable",
						Destination: &ctrl.Flags.Plugins,
					},
					&cli.StringFlag{
						Name:        "out",
						Aliases:     []string{"o"},
						Usage:       "write to this file instead of stdout",
						Destination: &ctrl.Flags.Output,
					},
					&cli.BoolFlag{
						Name:        "check",
						Usage:       "fail with a diff when the --out file is not up to date",
						Destination: &ctrl.Flags.Check,
					},
					&cli.BoolFlag{
						Name:        "watch",
						Aliases:     []string{"w"},
						Usage:       "regenerate whenever a schema changes",
						Destination: &ctrl.Flags.Watch,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx, c.Args().Slice())
				},
			},
			{
				Name:  "languages",
				Usage: "List supported languages",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Languages(ctx)
				},
			},
			{
				Name:  "plugins",
				Usage: "List built-in plugins",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Plugins(ctx)
				},
			},
			{
				Name:  "init",
				Usage: "Create a sample project with a config file and schemas",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run nexus-idl")
	}
}
