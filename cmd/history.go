package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/j-licht/crs-scripts/internal/config"
	"github.com/j-licht/crs-scripts/internal/history"
	"github.com/urfave/cli/v3"
)

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recently executed tasks from the local run history",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of rows to show",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			records, err := store.ListRecent(ctx, int(cmd.Int("limit")))
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tJOB\tTASK\tTYPE\tSTATE\tERROR")
			for _, r := range records {
				errText := r.Error
				if errText == "" {
					errText = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\t%s\t%s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.JobLabel, r.TaskIndex, r.TaskTotal, r.TaskType, r.State, errText)
			}
			return w.Flush()
		},
	}
}
