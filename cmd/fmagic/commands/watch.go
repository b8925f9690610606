package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/fmagic/internal/core/domain"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE [option line...]",
		Short: "Rebuild a Fortran cell whenever it changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return domain.ErrNoSource
			}
			return c.app.Watch(cmd.Context(), args[0], optionLine(args[1:]))
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}
