// Package inbox implements the review commands for the inbox collection.
package inbox

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/cardfeed/cmd/common"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/review"
)

// Command creates the inbox command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Review cards waiting in the inbox",
	}
	cmd.AddCommand(listCommand(), approveCommand(), rejectCommand())
	return cmd
}

func listCommand() *cobra.Command {
	var cardType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inbox cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()

			cards, err := common.FilterType(review.NewGate(deps.Store, deps.Logger).List(domain.CollectionInbox), cardType)
			if err != nil {
				return err
			}
			common.RenderCards(cmd.OutOrStdout(), cards)
			return nil
		},
	}
	cmd.Flags().StringVar(&cardType, "type", "", "only show cards of this type")
	return cmd
}

func approveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>...",
		Short: "Move cards from the inbox to published",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()

			out, err := review.NewGate(deps.Store, deps.Logger).Approve(args...)
			if err != nil {
				return err
			}
			PrintOutcome(cmd.OutOrStdout(), "Approved", out)
			return nil
		},
	}
}

func rejectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>...",
		Short: "Remove cards from the inbox",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()

			out, err := review.NewGate(deps.Store, deps.Logger).Reject(args...)
			if err != nil {
				return err
			}
			PrintOutcome(cmd.OutOrStdout(), "Rejected", out)
			return nil
		},
	}
}

// PrintOutcome reports a review transition.
func PrintOutcome(w io.Writer, verb string, out review.Outcome) {
	fmt.Fprintf(w, "%s %d card(s)\n", verb, len(out.Matched))
	if out.Duplicates > 0 {
		fmt.Fprintf(w, "%d already published under the same title\n", out.Duplicates)
	}
	for _, id := range out.Missing {
		fmt.Fprintf(w, "not found: %s\n", id)
	}
}
