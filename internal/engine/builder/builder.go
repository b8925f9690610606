// Package builder drives one cell from option resolution to exported symbols.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
	"go.trai.ch/fmagic/internal/engine/registry"
	"go.trai.ch/fmagic/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// ReloadHint is the command that forces a clean rebuild of loaded extensions.
const ReloadHint = "fmagic config --clean-cache"

// Request is one build-and-import request.
type Request struct {
	// Source is the cell body.
	Source string
	// Line is the invocation option line.
	Line string
}

// Result describes a completed request.
type Result struct {
	Record   *domain.ArtifactRecord
	CacheHit bool
	// Names are the symbols exported into the namespace.
	Names []string
}

// Builder runs build requests one at a time against a shared registry and namespace.
type Builder struct {
	settings *domain.Settings
	store    ports.SessionStore
	cache    ports.ArtifactCache
	invoker  ports.ToolInvoker
	host     ports.Toolchain
	loader   ports.NativeLoader
	manifest ports.ArtifactManifest
	logger   ports.Logger
	tracer   ports.Tracer

	mu        sync.Mutex
	registry  *registry.Registry
	namespace domain.Namespace
	stdout    io.Writer
	stderr    io.Writer
	now       func() time.Time
}

// New creates a new Builder.
func New(
	settings *domain.Settings,
	store ports.SessionStore,
	cache ports.ArtifactCache,
	invoker ports.ToolInvoker,
	host ports.Toolchain,
	loader ports.NativeLoader,
	manifest ports.ArtifactManifest,
	log ports.Logger,
	tracer ports.Tracer,
) *Builder {
	return &Builder{
		settings:  settings,
		store:     store,
		cache:     cache,
		invoker:   invoker,
		host:      host,
		loader:    loader,
		manifest:  manifest,
		logger:    log,
		tracer:    tracer,
		registry:  registry.New(),
		namespace: make(domain.Namespace),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		now:       time.Now,
	}
}

// WithOutput sets the writers for notices and flushed driver output.
func (b *Builder) WithOutput(stdout, stderr io.Writer) *Builder {
	b.stdout = stdout
	b.stderr = stderr
	return b
}

// WithClock replaces the time source used for build timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Namespace returns the destination scope of exported symbols.
func (b *Builder) Namespace() domain.Namespace {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.namespace
}

// Records returns every artifact registered in this process, ordered by module name.
func (b *Builder) Records() []*domain.ArtifactRecord {
	return b.registry.All()
}

// resolution is the outcome of the option resolving phase.
type resolution struct {
	persisted   string
	options     *domain.OptionSet
	translation domain.Translation
}

// Build compiles and imports one cell. A nonzero driver exit yields
// domain.ErrBuildFailed and nothing is registered.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, span := b.tracer.Start(ctx, "build")
	defer span.End()

	res, err := b.resolve(ctx, req.Line)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("verbosity", res.options.Verbosity)

	unit, name := b.check(ctx, req, res)
	span.SetAttribute("module", name)

	if rec, ok := b.registry.Get(name); ok {
		span.SetAttribute("cache_hit", true)
		_, _ = fmt.Fprintf(b.stdout, "The extension %s is already loaded. To reload it, use:\n", name)
		_, _ = fmt.Fprintf(b.stdout, "  %s\n", ReloadHint)
		names := b.export(rec.Module, unit.Source, res.options.Verbosity)
		return &Result{Record: rec, CacheHit: true, Names: names}, nil
	}
	span.SetAttribute("cache_hit", false)

	sourcePath, err := b.writeSource(ctx, unit, name, res.translation.Suffix)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := b.invoke(ctx, unit.CacheDir, name, sourcePath, res); err != nil {
		span.RecordError(err)
		return nil, err
	}

	binaryPath := filepath.Join(unit.CacheDir, name+b.host.ExtensionSuffix(ctx))
	module, err := b.load(ctx, unit.CacheDir, binaryPath, name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rec := b.register(ctx, unit, name, sourcePath, binaryPath, module)
	names := b.export(module, unit.Source, res.options.Verbosity)
	return &Result{Record: rec, Names: names}, nil
}

// resolve merges the persisted default line with the invocation line and translates the result.
func (b *Builder) resolve(ctx context.Context, line string) (*resolution, error) {
	_, span := b.tracer.Start(ctx, "build.resolve")
	defer span.End()

	persisted, err := b.store.Get(domain.DefaultsKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			b.logger.Warn("failed to read saved defaults: " + err.Error())
		}
		persisted = ""
	}

	opts, err := resolver.BuildSchema.Merge(persisted, line)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	tr := resolver.Translate(opts, b.settings.Backend)
	for _, w := range tr.Warnings {
		b.logger.Warn(w)
	}
	span.SetAttribute("args", tr.Args)

	return &resolution{persisted: persisted, options: opts, translation: tr}, nil
}

// check builds the compilation unit for the live cache directory and derives its module name.
func (b *Builder) check(ctx context.Context, req Request, res *resolution) (domain.CompilationUnit, string) {
	ctx, span := b.tracer.Start(ctx, "build.check")
	defer span.End()

	markers := b.host.Markers(ctx)
	dir := b.cache.EnsureLive()
	unit := domain.NewCompilationUnit(req.Source, req.Line, res.persisted, dir, markers)
	name := unit.Fingerprint().ModuleName()

	span.SetAttribute("cache_dir", dir)
	return unit, name
}

func (b *Builder) writeSource(ctx context.Context, unit domain.CompilationUnit, name, suffix string) (string, error) {
	_, span := b.tracer.Start(ctx, "build.write")
	defer span.End()

	path := filepath.Join(unit.CacheDir, name+suffix)
	if err := os.WriteFile(path, []byte(unit.Source), domain.FilePerm); err != nil {
		err = zerr.With(zerr.Wrap(domain.ErrSourceWriteFailed, err.Error()), "path", path)
		span.RecordError(err)
		return "", err
	}
	span.SetAttribute("path", path)
	return path, nil
}

// invoke runs the driver on the written source.
func (b *Builder) invoke(ctx context.Context, dir, name, sourcePath string, res *resolution) error {
	ctx, span := b.tracer.Start(ctx, "build.invoke")
	defer span.End()

	command := make([]string, 0, len(b.settings.Driver)+len(res.translation.Args)+6)
	command = append(command, b.settings.Driver...)
	command = append(command, res.translation.Args...)
	command = append(command, "--backend", string(b.settings.Backend), "-m", name, "-c", sourcePath)

	exit, err := b.invoker.Run(ctx, domain.Invocation{
		Command: command,
		Dir:     dir,
		Env:     res.translation.Env(os.Getenv(domain.FlagsEnvVar)),
		Policy:  domain.DisplayPolicy{Verbosity: res.options.Verbosity},
		Stdout:  b.stdout,
		Stderr:  b.stderr,
	})
	span.SetAttribute("exit_code", exit)
	if err != nil {
		err = zerr.With(zerr.Wrap(domain.ErrBuildFailed, err.Error()), "module", name)
		span.RecordError(err)
		return err
	}
	if exit != 0 {
		err = zerr.With(zerr.With(zerr.Wrap(domain.ErrBuildFailed, "driver exited with nonzero status"), "module", name), "exit", exit)
		span.RecordError(err)
		return err
	}
	return nil
}

func (b *Builder) load(ctx context.Context, dir, path, name string) (*domain.ModuleHandle, error) {
	ctx, span := b.tracer.Start(ctx, "build.load")
	defer span.End()

	module, err := b.loader.Load(ctx, dir, path, name)
	if err != nil {
		if errors.Is(err, domain.ErrLoadFailed) {
			err = zerr.With(zerr.Wrap(err, "failed to import extension"), "module", name)
		} else {
			err = zerr.With(zerr.Wrap(domain.ErrLoadFailed, err.Error()), "module", name)
		}
		span.RecordError(err)
		return nil, err
	}
	module.Exports = b.loader.Exports(module)
	return module, nil
}

// register records the artifact in the registry and, best effort, in the on-disk manifest.
func (b *Builder) register(
	ctx context.Context,
	unit domain.CompilationUnit,
	name, sourcePath, binaryPath string,
	module *domain.ModuleHandle,
) *domain.ArtifactRecord {
	_, span := b.tracer.Start(ctx, "build.register")
	defer span.End()

	rec := &domain.ArtifactRecord{
		Fingerprint: unit.Fingerprint(),
		ModuleName:  name,
		SourcePath:  sourcePath,
		BinaryPath:  binaryPath,
		Digest:      digestFile(binaryPath),
		BuiltAt:     b.now(),
		Module:      module,
	}
	b.registry.Put(rec)

	if err := b.manifest.Put(unit.CacheDir, rec.Entry()); err != nil {
		b.logger.Warn("failed to update artifact manifest: " + err.Error())
	}
	span.SetAttribute("exports", len(module.Exports))
	return rec
}

// digestFile returns the xxhash64 of the file at path, or 0 when it cannot be read.
func digestFile(path string) uint64 {
	//nolint:gosec // Path is built from the cache directory and module name
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0
	}
	return h.Sum64()
}

// export merges the module's public symbols into the namespace.
func (b *Builder) export(module *domain.ModuleHandle, source string, verbosity int) []string {
	names := b.namespace.Merge(module, source)
	if verbosity > 0 && len(names) > 0 {
		_, _ = fmt.Fprintf(b.stdout, "\nOk. The following fortran objects are ready to use: %s\n", strings.Join(names, ", "))
	}
	return names
}
