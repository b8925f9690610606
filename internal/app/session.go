package app

import (
	"context"
	"io"

	"go.trai.ch/fmagic/internal/engine/resolver"
	"go.trai.ch/fmagic/internal/engine/script"
	"go.trai.ch/zerr"
)

// RunOptions configuration for the RunScript method.
type RunOptions struct {
	// ShowNamespace prints the exported symbols after the script completes.
	ShowNamespace bool
}

// RunScript executes every directive of a session script in order.
// All directives share this process's registry, so repeated cells are cache hits.
// The first failing directive stops the run.
func (a *App) RunScript(ctx context.Context, r io.Reader, opts RunOptions) error {
	directives, err := script.Parse(r)
	if err != nil {
		return err
	}

	for _, d := range directives {
		if err := a.runDirective(ctx, d); err != nil {
			return zerr.With(zerr.Wrap(err, d.Kind.String()+" failed"), "line", d.Pos)
		}
	}

	if opts.ShowNamespace {
		a.PrintNamespace()
	}
	return nil
}

func (a *App) runDirective(ctx context.Context, d script.Directive) error {
	switch d.Kind {
	case script.KindCell:
		_, err := a.Build(ctx, BuildOptions{Source: d.Body, Line: d.Line})
		return err
	case script.KindConfig:
		return a.Config(ctx, d.Line)
	case script.KindHelp:
		opts, err := resolver.HelpSchema.Parse(d.Line)
		if err != nil {
			return err
		}
		link, _ := opts.String(resolver.OptLink)
		return a.DriverHelp(ctx, DriverHelpOptions{Resources: opts.Bools[resolver.OptResources], Link: link})
	}
	return nil
}
