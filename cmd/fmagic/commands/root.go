// Package commands implements the CLI commands for fmagic.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"go.trai.ch/fmagic/internal/app"
	"go.trai.ch/fmagic/internal/build"
	"go.trai.ch/fmagic/internal/engine/builder"
)

// CLI represents the command line interface for fmagic.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) (*builder.Result, error)
	Config(ctx context.Context, line string) error
	DriverHelp(ctx context.Context, opts app.DriverHelpOptions) error
	RunScript(ctx context.Context, r io.Reader, opts app.RunOptions) error
	Watch(ctx context.Context, path, line string) error
	CacheList(ctx context.Context) error
	CachePath(ctx context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "fmagic",
		Short:         "Build Fortran source into importable extension modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(c.newDriverHelpCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetInput sets the stream read by "-" sources.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// optionLine rejoins pass-through arguments into a single option line.
func optionLine(args []string) string {
	return shellquote.Join(args...)
}

// isHelp reports whether a pass-through argument list only asks for help.
func isHelp(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}
