// Package collect implements the collect command.
package collect

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/cardfeed/cmd/common"
	"github.com/jonesrussell/cardfeed/internal/collector"
)

// Command creates the collect command.
func Command() *cobra.Command {
	var budget time.Duration

	cmd := &cobra.Command{
		Use:   "collect [collection...]",
		Short: "Fetch sources and merge new cards",
		Long: `Run the named collections, or all of them, once. Source failures are
reported and skipped; the command fails only when a collection cannot be saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()
			deps.LogConfig()

			runner, err := deps.Runner(budget)
			if err != nil {
				return err
			}

			run, runErr := runner.Run(cmd.Context(), args...)
			RenderSummary(cmd.OutOrStdout(), run)
			if runErr != nil {
				return fmt.Errorf("collect: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&budget, "budget", 0, "wall-clock limit for the whole run (default from config)")
	return cmd
}

// RenderSummary prints one row per collection followed by any fetch errors.
func RenderSummary(w io.Writer, run collector.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Collection", "Target", "Fetched", "Added", "Dropped", "Existing", "Total", "Errors", "Duration"})

	for _, s := range run.Collections {
		status := fmt.Sprint(len(s.Errors))
		if s.SaveErr != nil {
			status += " (not saved)"
		}
		t.AppendRow(table.Row{
			s.Collection, s.Target, s.Fetched, s.Added, s.Dropped(), s.TotalExisting, s.Total, status,
			s.Duration.Round(time.Millisecond),
		})
	}
	t.AppendFooter(table.Row{"", "", "", run.Added(), "", "", "", run.ErrorCount(), run.Duration.Round(time.Millisecond)})
	t.Render()

	for _, s := range run.Collections {
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s: %s\n", s.Collection, e)
		}
	}
}
