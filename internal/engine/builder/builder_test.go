package builder_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fmagic/internal/adapters/shell"
	"go.trai.ch/fmagic/internal/adapters/telemetry"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports/mocks"
	"go.trai.ch/fmagic/internal/engine/builder"
	"go.uber.org/mock/gomock"
)

const cell = `subroutine one(x)
  real, intent(out) :: x
  x = 1.0
end subroutine one`

var markers = domain.EnvironmentMarkers{
	InterpreterVersion: "3.12.1.final.0",
	InterpreterPath:    "/usr/bin/python3",
	ToolchainVersion:   "2.1.0",
	Backend:            domain.BackendMeson,
}

type fixture struct {
	store    *mocks.MockSessionStore
	cache    *mocks.MockArtifactCache
	invoker  *mocks.MockToolInvoker
	host     *mocks.MockToolchain
	loader   *mocks.MockNativeLoader
	manifest *mocks.MockArtifactManifest
	logger   *mocks.MockLogger
	settings *domain.Settings
	dir      string
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		store:    mocks.NewMockSessionStore(ctrl),
		cache:    mocks.NewMockArtifactCache(ctrl),
		invoker:  mocks.NewMockToolInvoker(ctrl),
		host:     mocks.NewMockToolchain(ctrl),
		loader:   mocks.NewMockNativeLoader(ctrl),
		manifest: mocks.NewMockArtifactManifest(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		settings: &domain.Settings{
			Python:  "python3",
			Driver:  []string{"python3", "-m", "numpy.f2py"},
			Backend: domain.BackendMeson,
		},
		dir:    t.TempDir(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}

	f.host.EXPECT().Markers(gomock.Any()).Return(markers).AnyTimes()
	f.host.EXPECT().ExtensionSuffix(gomock.Any()).Return(".so").AnyTimes()
	return f
}

func (f *fixture) builder() *builder.Builder {
	return builder.New(f.settings, f.store, f.cache, f.invoker, f.host, f.loader, f.manifest, f.logger,
		telemetry.NewNoOpTracer()).
		WithOutput(f.stdout, f.stderr).
		WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })
}

func (f *fixture) noDefaults() {
	f.store.EXPECT().Get(domain.DefaultsKey).Return("", domain.ErrKeyNotFound).AnyTimes()
}

func (f *fixture) liveDir() {
	f.cache.EXPECT().EnsureLive().Return(f.dir).AnyTimes()
}

// expectLoad makes the loader return a module exporting one subroutine plus a reserved member.
func (f *fixture) expectLoad() {
	f.loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _, path, name string) (*domain.ModuleHandle, error) {
			return &domain.ModuleHandle{
				Name: name,
				Path: path,
				Exports: map[string]domain.Export{
					"one":     {Name: "one", Kind: "fortran", Callable: true},
					"__doc__": {Name: "__doc__", Kind: "str"},
				},
			}, nil
		})
	f.loader.EXPECT().Exports(gomock.Any()).DoAndReturn(func(m *domain.ModuleHandle) map[string]domain.Export {
		return m.Exports
	})
}

func moduleName(source, line, persisted, dir string) string {
	return domain.NewCompilationUnit(source, line, persisted, dir, markers).Fingerprint().ModuleName()
}

func TestBuild_HappyPath(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()
	f.liveDir()
	f.expectLoad()

	name := moduleName(cell, "", "", f.dir)
	source := filepath.Join(f.dir, name+".f90")

	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.Invocation) (int, error) {
			assert.Equal(t, []string{
				"python3", "-m", "numpy.f2py",
				"--backend", "meson", "-m", name, "-c", source,
			}, inv.Command)
			assert.Equal(t, f.dir, inv.Dir)
			assert.Nil(t, inv.Env)
			assert.Equal(t, domain.DisplayPolicy{}, inv.Policy)
			return 0, os.WriteFile(filepath.Join(f.dir, name+".so"), []byte("\x7fELF"), 0o600)
		})
	f.manifest.EXPECT().Put(f.dir, gomock.Any()).DoAndReturn(func(_ string, e domain.ManifestEntry) error {
		assert.Equal(t, name, e.ModuleName)
		assert.Equal(t, []string{"one"}, e.Exports)
		return nil
	})

	b := f.builder()
	res, err := b.Build(t.Context(), builder.Request{Source: cell})
	require.NoError(t, err)

	assert.False(t, res.CacheHit)
	assert.Equal(t, []string{"one"}, res.Names)
	assert.Equal(t, name, res.Record.ModuleName)
	assert.Equal(t, filepath.Join(f.dir, name+".so"), res.Record.BinaryPath)
	assert.Equal(t, xxhash.Sum64String("\x7fELF"), res.Record.Digest)

	data, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, cell+"\n", string(data))

	export, ok := b.Namespace()["one"]
	require.True(t, ok)
	assert.True(t, export.Callable)
	assert.Equal(t, cell+"\n", export.Source)
	assert.Equal(t, name, export.Module)
	assert.NotContains(t, b.Namespace(), "__doc__")

	assert.Len(t, b.Records(), 1)
	assert.Empty(t, f.stdout.String(), "verbosity 0 prints nothing")
	assert.Empty(t, f.stderr.String())
}

func TestBuild_CacheHit(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()
	f.liveDir()
	f.expectLoad()

	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).Return(0, nil).Times(1)
	f.manifest.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	b := f.builder()
	first, err := b.Build(t.Context(), builder.Request{Source: cell})
	require.NoError(t, err)

	require.NoError(t, os.Remove(first.Record.SourcePath))

	second, err := b.Build(t.Context(), builder.Request{Source: cell})
	require.NoError(t, err)

	assert.True(t, second.CacheHit)
	assert.Same(t, first.Record, second.Record)
	assert.NoFileExists(t, first.Record.SourcePath, "cache hit writes no source")
	assert.Equal(t,
		"The extension "+first.Record.ModuleName+" is already loaded. To reload it, use:\n"+
			"  fmagic config --clean-cache\n",
		f.stdout.String())
}

func TestBuild_SyntaxError(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()
	f.liveDir()

	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.Invocation) (int, error) {
			_, _ = inv.Stderr.Write([]byte("Error: Invalid character in name at (1)\n"))
			return 1, nil
		})

	b := f.builder()
	_, err := b.Build(t.Context(), builder.Request{Source: "x = 1.O\n"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildFailed))
	assert.Empty(t, b.Records())
	assert.Empty(t, b.Namespace())
}

func TestBuild_MissingToolchain(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()
	f.liveDir()
	f.settings.Driver = []string{filepath.Join(f.dir, "no-such-driver")}

	b := builder.New(f.settings, f.store, f.cache, shell.NewInvoker(), f.host, f.loader, f.manifest, f.logger,
		telemetry.NewNoOpTracer()).WithOutput(f.stdout, f.stderr)

	_, err := b.Build(t.Context(), builder.Request{Source: cell})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildFailed))

	combined := f.stdout.String() + f.stderr.String()
	lines := strings.Split(strings.TrimSpace(combined), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Couldn't find program")
}

func TestBuild_AfterPurgeRebuildsInNewDirectory(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()

	newDir := t.TempDir()
	gomock.InOrder(
		f.cache.EXPECT().EnsureLive().Return(f.dir),
		f.cache.EXPECT().EnsureLive().Return(newDir),
	)
	f.expectLoad()
	f.expectLoad()

	var dirs []string
	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.Invocation) (int, error) {
			dirs = append(dirs, inv.Dir)
			return 0, nil
		}).Times(2)
	f.manifest.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	b := f.builder()
	first, err := b.Build(t.Context(), builder.Request{Source: cell})
	require.NoError(t, err)
	second, err := b.Build(t.Context(), builder.Request{Source: cell})
	require.NoError(t, err)

	assert.False(t, second.CacheHit)
	assert.NotEqual(t, first.Record.ModuleName, second.Record.ModuleName)
	assert.Equal(t, []string{f.dir, newDir}, dirs)
	assert.FileExists(t, filepath.Join(newDir, second.Record.ModuleName+".f90"))
	assert.Len(t, b.Records(), 2)
}

func TestBuild_PersistedDefaults(t *testing.T) {
	f := newFixture(t)
	f.liveDir()
	f.expectLoad()
	f.store.EXPECT().Get(domain.DefaultsKey).Return("--opt=-O3 -v -v", nil)

	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.Invocation) (int, error) {
			assert.Contains(t, inv.Command, "--opt=-O3")
			assert.Equal(t, 1, inv.Policy.Verbosity)
			return 0, nil
		})
	f.manifest.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.builder().Build(t.Context(), builder.Request{Source: cell, Line: "-v"})
	require.NoError(t, err)

	assert.Equal(t, moduleName(cell, "-v", "--opt=-O3 -v -v", f.dir), res.Record.ModuleName)
	assert.Equal(t, "\nOk. The following fortran objects are ready to use: one\n", f.stdout.String())
}

func TestBuild_FlagFamilies(t *testing.T) {
	t.Setenv(domain.FlagsEnvVar, "-g")

	f := newFixture(t)
	f.noDefaults()
	f.liveDir()
	f.expectLoad()
	f.logger.EXPECT().Warn("ambiguity, both f77flags and f90flags are set, assume the f77 module")

	line := `--f77flags="-ffixed-form -Wall" --f90flags=-O0`
	name := moduleName(cell, line, "", f.dir)

	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.Invocation) (int, error) {
			assert.Equal(t, filepath.Join(f.dir, name+".f"), inv.Command[len(inv.Command)-1])
			assert.Equal(t, map[string]string{domain.FlagsEnvVar: "-g -Wall"}, inv.Env)
			return 0, nil
		})
	f.manifest.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.builder().Build(t.Context(), builder.Request{Source: cell, Line: line})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, name+".f"), res.Record.SourcePath)
}

func TestBuild_LoadFailure(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()
	f.liveDir()

	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).Return(0, nil)
	f.loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("undefined symbol"))

	b := f.builder()
	_, err := b.Build(t.Context(), builder.Request{Source: cell})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLoadFailed))
	assert.Empty(t, b.Records())
}

func TestBuild_ManifestFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()
	f.liveDir()
	f.expectLoad()

	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).Return(0, nil)
	f.manifest.EXPECT().Put(gomock.Any(), gomock.Any()).Return(domain.ErrManifestWriteFailed)
	f.logger.EXPECT().Warn(gomock.Any())

	res, err := f.builder().Build(t.Context(), builder.Request{Source: cell})
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, res.Names)
}

func TestBuild_InvalidOptions(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()

	_, err := f.builder().Build(t.Context(), builder.Request{Source: cell, Line: "--bogus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOptions))
}

func TestBuild_StoreErrorFallsBackToNoDefaults(t *testing.T) {
	f := newFixture(t)
	f.liveDir()
	f.expectLoad()
	f.store.EXPECT().Get(domain.DefaultsKey).Return("", domain.ErrStoreOpenFailed)
	f.logger.EXPECT().Warn(gomock.Any())
	f.invoker.EXPECT().Run(gomock.Any(), gomock.Any()).Return(0, nil)
	f.manifest.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.builder().Build(t.Context(), builder.Request{Source: cell})
	require.NoError(t, err)
	assert.Equal(t, moduleName(cell, "", "", f.dir), res.Record.ModuleName)
}

func TestBuild_VerbosityShowsRunningLine(t *testing.T) {
	f := newFixture(t)
	f.noDefaults()
	f.liveDir()
	f.settings.Driver = []string{filepath.Join(f.dir, "f2py")}
	require.NoError(t, os.WriteFile(f.settings.Driver[0], []byte("#!/bin/sh\necho built\n"), 0o700))

	f.loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.ModuleHandle{Name: "m", Exports: map[string]domain.Export{"one": {}}}, nil)
	f.loader.EXPECT().Exports(gomock.Any()).DoAndReturn(func(m *domain.ModuleHandle) map[string]domain.Export {
		return m.Exports
	})
	f.manifest.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	b := builder.New(f.settings, f.store, f.cache, shell.NewInvoker(), f.host, f.loader, f.manifest, f.logger,
		telemetry.NewNoOpTracer()).WithOutput(f.stdout, f.stderr)

	_, err := b.Build(t.Context(), builder.Request{Source: cell, Line: "-v -v -v"})
	require.NoError(t, err)

	out := f.stdout.String()
	assert.True(t, strings.HasPrefix(out, "Running...\n   "+f.settings.Driver[0]), out)
	assert.Contains(t, out, "built\n")
	assert.True(t, strings.HasSuffix(out, "ready to use: one\n"), out)
}
