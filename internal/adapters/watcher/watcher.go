package watcher

import (
	"context"
	"iter"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/fmagic/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 100 * time.Millisecond

const batchChannelBuffer = 16

// Watcher implements ports.Watcher using fsnotify.
//
// Parent directories are watched rather than the files themselves, so editors
// that save by renaming a temp file over the original are still seen.
type Watcher struct {
	logger    ports.Logger
	window    time.Duration
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	targets   map[string]struct{}
	batches   chan []ports.WatchEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a new file watcher. No OS resources are held until Start.
func NewWatcher(logger ports.Logger, window time.Duration) *Watcher {
	w := &Watcher{
		logger:  logger,
		window:  window,
		targets: make(map[string]struct{}),
		batches: make(chan []ports.WatchEvent, batchChannelBuffer),
		done:    make(chan struct{}),
	}
	w.debouncer = NewDebouncer(window, w.deliver)
	return w
}

// Start begins watching the given files.
func (w *Watcher) Start(ctx context.Context, paths ...string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}

	dirs := make(map[string]struct{})
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", path)
		}
		w.targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	w.fsWatcher = fsWatcher
	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	if w.fsWatcher == nil {
		w.finish()
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of debounced change batches.
// Iteration ends when the watcher stops or its context is cancelled.
func (w *Watcher) Events() iter.Seq[[]ports.WatchEvent] {
	return func(yield func([]ports.WatchEvent) bool) {
		for {
			select {
			case batch := <-w.batches:
				if !yield(batch) {
					return
				}
			case <-w.done:
				return
			}
		}
	}
}

func (w *Watcher) deliver(events []ports.WatchEvent) {
	select {
	case w.batches <- events:
	case <-w.done:
	}
}

func (w *Watcher) finish() {
	w.closeOnce.Do(func() { close(w.done) })
}

// processEvents converts raw fsnotify events for watched files and feeds the debouncer.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.finish()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				w.debouncer.Flush()
				return
			}
			if _, watched := w.targets[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if watchEvent, ok := convertEvent(event); ok {
				w.debouncer.Add(watchEvent)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}

// convertEvent converts an fsnotify event to a ports.WatchEvent.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: filepath.Clean(event.Name), Operation: op}, true
}
