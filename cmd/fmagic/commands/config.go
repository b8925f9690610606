package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [option line...]",
		Short: "Show or change the default option line",
		Long: `Show or change the default option line used by every build.

  fmagic config                  show the saved defaults
  fmagic config --opt=-O3 -v     save a new default line
  fmagic config --defaults       delete the saved defaults
  fmagic config --clean-cache    purge the cache and start a fresh directory`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isHelp(args) {
				return cmd.Help()
			}
			return c.app.Config(cmd.Context(), optionLine(args))
		},
	}
}
