package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/fmagic/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run SCRIPT...",
		Short: "Run session scripts of cells and directives",
		Long: `Run session scripts in one process.

A script holds "%%fortran [options]" cells, whose body runs until the next
directive line, plus "%fortran_config [options]" and "%f2py_help [options]"
lines. Use "-" to read a script from standard input.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			verbose, _ := cmd.Flags().GetBool("verbose")

			for i, path := range args {
				opts := app.RunOptions{ShowNamespace: verbose && i == len(args)-1}
				if err := c.runScript(cmd, path, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Print the exported names when done")
	return cmd
}

func (c *CLI) runScript(cmd *cobra.Command, path string, opts app.RunOptions) error {
	if path == "-" {
		return c.app.RunScript(cmd.Context(), cmd.InOrStdin(), opts)
	}
	//nolint:gosec // Path is provided by the user on the command line
	f, err := os.Open(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open script"), "path", path)
	}
	defer func() { _ = f.Close() }()

	if err := c.app.RunScript(cmd.Context(), f, opts); err != nil {
		return zerr.With(err, "script", path)
	}
	return nil
}
