// Package cmd implements the cardfeed command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/cardfeed/cmd/cards"
	"github.com/jonesrussell/cardfeed/cmd/collect"
	"github.com/jonesrussell/cardfeed/cmd/common"
	"github.com/jonesrussell/cardfeed/cmd/inbox"
	"github.com/jonesrussell/cardfeed/cmd/schedule"
	"github.com/jonesrussell/cardfeed/cmd/serve"
	"github.com/jonesrussell/cardfeed/cmd/translate"
	"github.com/jonesrussell/cardfeed/internal/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "cardfeed",
	Short: "Collect, dedupe and review Korea content cards",
	Long: `cardfeed pulls news, events, traffic and weather items from feeds,
search feeds and scraped list pages, turns them into content cards and
merges them into an inbox for review or straight into the published set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&common.ConfigPath, "config", "",
		"config file (default $CONFIG_PATH or ./"+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVar(&common.Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cardfeed version %s\n", Version)
		},
	})

	common.Version = Version
	rootCmd.AddCommand(collect.Command())
	rootCmd.AddCommand(inbox.Command())
	rootCmd.AddCommand(cards.Command())
	rootCmd.AddCommand(schedule.Command())
	rootCmd.AddCommand(serve.Command())
	rootCmd.AddCommand(translate.Command())
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
