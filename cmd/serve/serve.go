// Package serve implements the HTTP API command.
package serve

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/cardfeed/cmd/common"
	"github.com/jonesrussell/cardfeed/internal/api"
)

// Command creates the serve command.
func Command() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve cards and page metadata over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer deps.Close()
			deps.LogConfig()

			if addr != "" {
				deps.Config.Server.Addr = addr
			}
			if !common.Debug {
				gin.SetMode(gin.ReleaseMode)
			}

			resolver, err := deps.Resolver()
			if err != nil {
				return err
			}
			c, closeCache, err := deps.Cache()
			if err != nil {
				return err
			}
			defer closeCache()

			router := api.NewRouter(api.Deps{
				Store:    deps.Store,
				Geo:      resolver,
				Meta:     deps.Extractor(deps.Fetcher(deps.HTTPClient()), c),
				Gatherer: deps.Registry,
				Log:      deps.Logger,
				Version:  common.Version,
			})
			return api.NewServer(deps.Config.Server, router, deps.Logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
