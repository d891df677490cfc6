// Package translate implements the translate command.
package translate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/cardfeed/cmd/common"
)

// ErrNoEngines is returned when no engine has a URL configured.
var ErrNoEngines = errors.New("no translation engine configured; set translate.libretranslate.url or translate.ollama.url")

// Command creates the translate command.
func Command() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "translate <text>...",
		Short: "Translate text through the configured engines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()

			tr := deps.Translator()
			if tr == nil {
				return ErrNoEngines
			}
			if from == "" {
				from = deps.Config.Translate.SourceLang
			}

			res, err := tr.Translate(cmd.Context(), strings.Join(args, " "), from, to)
			if err != nil {
				return err
			}
			engine := res.Engine
			if engine == "" {
				engine = "none"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n(engine: %s)\n", res.Text, engine)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source language (default from config)")
	cmd.Flags().StringVar(&to, "to", "fr", "target language")
	return cmd
}
