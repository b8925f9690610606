package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/fmagic/internal/app"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build FILE|- [option line...]",
		Short: "Build a Fortran cell and import it",
		Long: `Build a Fortran cell and import it.

Everything after FILE is the option line handed to the driver, for example:

  fmagic build cell.f90 --opt=-O3 --link lapack -v`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return domain.ErrNoSource
			}
			source, err := readSource(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			_, err = c.app.Build(cmd.Context(), app.BuildOptions{
				Source: source,
				Line:   optionLine(args[1:]),
			})
			return err
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// readSource reads a cell body from path, or from in when path is "-".
func readSource(in io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", zerr.Wrap(err, "failed to read source from stdin")
		}
		return string(data), nil
	}
	//nolint:gosec // Path is provided by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read source"), "path", path)
	}
	return string(data), nil
}
