package cmd

import (
	"github.com/urfave/cli/v3"
)

var version = "dev"

func App() *cli.Command {
	return &cli.Command{
		Name:    "crs",
		Version: version,
		Usage:   "Execute XML-described transcoding jobs against local executables, committing outputs only when a task succeeds.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML config file",
				Sources: cli.EnvVars("CRS_CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("CRS_LOGGING_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			runCmd(),
			inspectCmd(),
			historyCmd(),
		},
	}
}
