package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/j-licht/crs-scripts/internal/jobfile"
	"github.com/urfave/cli/v3"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Parse a job description and print its task table without executing anything",
		ArgsUsage: "<job.xml | inline XML document>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			source := cmd.Args().First()
			if source == "" {
				return fmt.Errorf("job description path or inline document is required")
			}

			job, err := jobfile.LoadSource(source)
			if err != nil {
				return fmt.Errorf("load job description: %w", err)
			}

			tasks := job.Flatten()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTYPE\tENCODING\tOPTIONS\tFILES")
			for i, t := range tasks {
				files := 0
				for _, o := range t.Options {
					if o.FileType != "" {
						files++
					}
				}
				enc := t.Encoding
				if enc == "" {
					enc = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", i+1, t.Type, enc, len(t.Options), files)
			}
			return w.Flush()
		},
	}
}
