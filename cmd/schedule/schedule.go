// Package schedule implements the recurring collection command.
package schedule

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/cardfeed/cmd/common"
	"github.com/jonesrussell/cardfeed/internal/scheduler"
)

// Command creates the schedule command.
func Command() *cobra.Command {
	var (
		spec       string
		runOnStart bool
	)

	cmd := &cobra.Command{
		Use:   "schedule [collection...]",
		Short: "Run collection on a cron schedule",
		Long: `Run the named collections, or all of them, on a cron schedule in KST.
A tick that arrives while the previous run is still going is skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()
			deps.LogConfig()

			if spec == "" {
				spec = deps.Config.Schedule.Spec
			}
			if !cmd.Flags().Changed("run-on-start") {
				runOnStart = deps.Config.Schedule.RunOnStart
			}

			runner, err := deps.Runner(0)
			if err != nil {
				return err
			}

			s, err := scheduler.New(spec, func(ctx context.Context) error {
				_, runErr := runner.Run(ctx, args...)
				return runErr
			}, deps.Logger)
			if err != nil {
				return err
			}
			return s.Run(cmd.Context(), runOnStart)
		},
	}

	cmd.Flags().StringVar(&spec, "spec", "", `cron spec, e.g. "0 */3 * * *" (default from config)`)
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run once immediately")
	return cmd
}
