package cmd

import (
	"context"
	"fmt"

	"github.com/j-licht/crs-scripts/internal/config"
	"github.com/j-licht/crs-scripts/internal/engine"
	"github.com/j-licht/crs-scripts/internal/event"
	"github.com/j-licht/crs-scripts/internal/history"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Execute the matching tasks of a job description",
		ArgsUsage: "<job.xml | inline XML document>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Task type to execute (defaults to the configured filter)",
				Sources: cli.EnvVars("CRS_ENGINE_TASK_TYPE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if v := cmd.String("log-level"); v != "" {
				cfg.Logging.Level = v
			}
			applyLogLevel(cfg.Logging.Level)

			source := cmd.Args().First()
			if source == "" {
				return fmt.Errorf("job description path or inline document is required")
			}

			bus := event.NewBus()
			if cfg.History.Enabled {
				store, err := history.Open(cfg.History.Path)
				if err != nil {
					return fmt.Errorf("open history store: %w", err)
				}
				defer store.Close()
				store.SetupEventHandlers(bus)
			}

			eng, err := engine.New(source, cfg.Engine, engine.WithBus(bus))
			if err != nil {
				return fmt.Errorf("load job description: %w", err)
			}

			ok, err := eng.Execute(ctx, cmd.String("type"))
			if err != nil {
				// Environment errors make the whole run unusable; main
				// terminates the process on the returned error.
				return fmt.Errorf("job aborted: %w", err)
			}
			if !ok {
				return cli.Exit("job failed: a task did not complete, staged outputs were discarded", 1)
			}

			log.Info().Msg("all tasks committed")
			return nil
		},
	}
}

func applyLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, keeping info")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}
