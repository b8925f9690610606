package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/fmagic/internal/app"
	"go.trai.ch/fmagic/internal/engine/resolver"
)

func (c *CLI) newDriverHelpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "driver-help",
		Short: "Show the driver's help on linkable resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resources, _ := cmd.Flags().GetBool(resolver.OptResources)
			link, _ := cmd.Flags().GetString(resolver.OptLink)
			if !resources && link == "" {
				_ = cmd.Help()
				return nil
			}
			return c.app.DriverHelp(cmd.Context(), app.DriverHelpOptions{
				Resources: resources,
				Link:      link,
			})
		},
	}
	// Same vocabulary as the %f2py_help script directive.
	cmd.Flags().AddFlagSet(resolver.HelpSchema.FlagSet("driver-help"))
	return cmd
}
