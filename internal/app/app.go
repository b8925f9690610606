// Package app implements the application layer for fmagic.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
	"go.trai.ch/fmagic/internal/engine/builder"
	"go.trai.ch/fmagic/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	builder  *builder.Builder
	store    ports.SessionStore
	cache    ports.ArtifactCache
	invoker  ports.ToolInvoker
	manifest ports.ArtifactManifest
	watcher  ports.Watcher
	logger   ports.Logger
	settings *domain.Settings
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a new App instance.
func New(
	settings *domain.Settings,
	b *builder.Builder,
	store ports.SessionStore,
	cache ports.ArtifactCache,
	invoker ports.ToolInvoker,
	manifest ports.ArtifactManifest,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		builder:  b,
		store:    store,
		cache:    cache,
		invoker:  invoker,
		manifest: manifest,
		watcher:  watcher,
		logger:   log,
		settings: settings,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithOutput sets the writers for command output and flushed driver output.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.builder.WithOutput(stdout, stderr)
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Source is the cell body.
	Source string
	// Line is the option line.
	Line string
}

// Build compiles and imports one cell.
func (a *App) Build(ctx context.Context, opts BuildOptions) (*builder.Result, error) {
	return a.builder.Build(ctx, builder.Request{Source: opts.Source, Line: opts.Line})
}

// Config shows or changes the saved default option line, or purges the cache.
func (a *App) Config(_ context.Context, line string) error {
	opts, err := resolver.ConfigSchema.Parse(line)
	if err != nil {
		return err
	}

	switch {
	case opts.Bools[resolver.OptCleanCache]:
		a.printf("Clean cache: %s\n", a.cache.Dir())
		dir := a.cache.Reset()
		if opts.Verbosity >= 1 {
			a.printf("New cache: %s\n", dir)
		}
	case opts.Bools[resolver.OptDefaults]:
		if _, err := a.store.Get(domain.DefaultsKey); err != nil {
			if errors.Is(err, domain.ErrKeyNotFound) {
				a.printf("No custom config found for %%%%fortran\n")
				return nil
			}
			return err
		}
		if err := a.store.Delete(domain.DefaultsKey); err != nil {
			return err
		}
		a.printf("Deleted custom config. Back to default arguments for %%%%fortran\n")
	case strings.TrimSpace(line) == "":
		saved, err := a.store.Get(domain.DefaultsKey)
		if err != nil {
			if errors.Is(err, domain.ErrKeyNotFound) {
				a.printf("No custom config found for %%%%fortran\n")
				return nil
			}
			return err
		}
		a.printf("Current defaults arguments for %%fortran:\n\t%s\n", saved)
	default:
		if err := a.store.Set(domain.DefaultsKey, line); err != nil {
			return err
		}
		a.printf("New default arguments for %%fortran:\n\t%s\n", line)
	}
	return nil
}

// DriverHelpOptions configuration for the DriverHelp method.
type DriverHelpOptions struct {
	Resources bool
	Link      string
}

// DriverHelp asks the driver for resource help and always shows its output.
// Resources wins over Link. With neither option set nothing is run.
func (a *App) DriverHelp(ctx context.Context, opts DriverHelpOptions) error {
	args := []string{"--help-link"}
	switch {
	case opts.Resources:
	case opts.Link != "":
		args = append(args, opts.Link)
	default:
		return nil
	}

	command := append(append([]string{}, a.settings.Driver...), args...)
	_, err := a.invoker.Run(ctx, domain.Invocation{
		Command: command,
		Dir:     a.cache.EnsureLive(),
		Policy:  domain.DisplayPolicy{AlwaysShow: true},
		Stdout:  a.stdout,
		Stderr:  a.stderr,
	})
	if err != nil {
		return zerr.Wrap(err, "failed to run driver help")
	}
	return nil
}

// CachePath prints the current cache directory.
func (a *App) CachePath(_ context.Context) error {
	a.printf("%s\n", a.cache.Dir())
	return nil
}

// CacheList prints the artifacts recorded in the current cache directory.
func (a *App) CacheList(_ context.Context) error {
	entries, err := a.manifest.List(a.cache.Dir())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("No artifacts in %s\n", a.cache.Dir())
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODULE\tBUILT\tEXPORTS")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.ModuleName, e.BuiltAt.Format(time.RFC3339), strings.Join(e.Exports, ", "))
	}
	return w.Flush()
}

// PrintNamespace prints every symbol exported so far with its kind.
func (a *App) PrintNamespace() {
	ns := a.builder.Namespace()
	for _, name := range ns.Names() {
		export := ns[name]
		a.printf("%s\t%s\t%s\n", name, export.Kind, export.Module)
	}
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.stdout, format, args...)
}
