package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lllkojlhuk/sushikub/config"
)

// NewRootCmd assembles the command tree. Running the binary without a
// subcommand starts the server.
func NewRootCmd(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "sushikub",
		Short: "Restaurant online-menu backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfg, version)
		},
	}

	root.AddCommand(
		NewServeCmd(cfg, version),
		NewCacheCmd(cfg),
		NewUserCmd(cfg),
		NewVersionCmd(version),
	)

	return root
}
