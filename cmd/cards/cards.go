// Package cards implements commands for the published collection.
package cards

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/cardfeed/cmd/common"
	"github.com/jonesrussell/cardfeed/cmd/inbox"
	"github.com/jonesrussell/cardfeed/internal/classify"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/merge"
	"github.com/jonesrussell/cardfeed/internal/review"
)

// Command creates the cards command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Inspect and clean up published cards",
	}
	cmd.AddCommand(listCommand(), removeCommand())
	return cmd
}

func listCommand() *cobra.Command {
	var (
		cardType string
		limit    int
		explain  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published cards, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()

			cards, err := common.FilterType(deps.Store.Load(domain.CollectionPublished), cardType)
			if err != nil {
				return err
			}
			merge.SortByUpdated(cards)
			cards = merge.Trim(cards, limit)
			if explain {
				common.RenderExplained(cmd.OutOrStdout(), cards, classify.New())
				return nil
			}
			common.RenderCards(cmd.OutOrStdout(), cards)
			return nil
		},
	}
	cmd.Flags().StringVar(&cardType, "type", "", "only show cards of this type")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many cards (0 shows all)")
	cmd.Flags().BoolVar(&explain, "explain", false, "show which classification rule matches each card")
	return cmd
}

func removeCommand() *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "remove <id>...",
		Short: "Delete cards from a collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()

			out, err := review.NewGate(deps.Store, deps.Logger).Remove(domain.CollectionFile(collection), args...)
			if err != nil {
				return err
			}
			inbox.PrintOutcome(cmd.OutOrStdout(), "Removed", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "from", "published", "collection to remove from (published or inbox)")
	return cmd
}
