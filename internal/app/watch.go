package app

import (
	"context"
	"os"

	"go.trai.ch/fmagic/internal/adapters/watcher" //nolint:depguard // Content cache is wired in app layer
	"go.trai.ch/fmagic/internal/core/ports"
	"go.trai.ch/zerr"
)

// Watch builds path and rebuilds it whenever its content changes.
// Build failures are reported and watching continues. It returns when ctx is done.
func (a *App) Watch(ctx context.Context, path, line string) error {
	contents := watcher.NewContentCache()

	rebuild := func() error {
		changed, err := contents.Changed(path)
		if err != nil || !changed {
			return err
		}
		//nolint:gosec // Path is provided by the user on the command line
		source, err := os.ReadFile(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read source"), "path", path)
		}
		if _, err := a.Build(ctx, BuildOptions{Source: string(source), Line: line}); err != nil {
			a.logger.Error(err)
		}
		return nil
	}

	if err := rebuild(); err != nil {
		return err
	}

	if err := a.watcher.Start(ctx, path); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info("watching " + path)
	for batch := range a.watcher.Events() {
		if removedOnly(batch) {
			continue
		}
		if err := rebuild(); err != nil {
			a.logger.Error(err)
		}
	}
	return nil
}

func removedOnly(batch []ports.WatchEvent) bool {
	for _, e := range batch {
		if e.Operation != ports.OpRemove {
			return false
		}
	}
	return true
}
