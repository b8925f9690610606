package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fmagic/internal/adapters/shell"
	"go.trai.ch/fmagic/internal/core/domain"
)

func run(t *testing.T, inv domain.Invocation) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	inv.Stdout = &out
	inv.Stderr = &errOut
	if inv.Dir == "" {
		inv.Dir = t.TempDir()
	}
	code, err := shell.NewInvoker().Run(context.Background(), inv)
	require.NoError(t, err)
	return code, out.String(), errOut.String()
}

func TestInvoker_QuietOnSuccess(t *testing.T) {
	code, stdout, stderr := run(t, domain.Invocation{
		Command: []string{"sh", "-c", "echo out; echo err >&2"},
	})

	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestInvoker_FlushOnFailure(t *testing.T) {
	code, stdout, stderr := run(t, domain.Invocation{
		Command: []string{"sh", "-c", "echo compiled; echo 'Error: syntax' >&2; exit 3"},
	})

	assert.Equal(t, 3, code)
	assert.Equal(t, "compiled\n", stdout)
	assert.Equal(t, "Error: syntax\n", stderr)
}

func TestInvoker_FlushesStderrFirst(t *testing.T) {
	var combined bytes.Buffer
	inv := domain.Invocation{
		Command: []string{"sh", "-c", "echo out; echo err >&2; exit 1"},
		Dir:     t.TempDir(),
		Stdout:  &combined,
		Stderr:  &combined,
	}
	code, err := shell.NewInvoker().Run(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "err\nout\n", combined.String())
}

func TestInvoker_DisplayPolicy(t *testing.T) {
	tests := []struct {
		name        string
		policy      domain.DisplayPolicy
		wantOutput  bool
		wantRunning bool
	}{
		{"verbosity 0", domain.DisplayPolicy{Verbosity: 0}, false, false},
		{"verbosity 1", domain.DisplayPolicy{Verbosity: 1}, false, false},
		{"verbosity 2", domain.DisplayPolicy{Verbosity: 2}, false, true},
		{"verbosity 3", domain.DisplayPolicy{Verbosity: 3}, true, true},
		{"always show", domain.DisplayPolicy{AlwaysShow: true}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := run(t, domain.Invocation{
				Command: []string{"sh", "-c", "echo built"},
				Policy:  tt.policy,
			})
			require.Equal(t, 0, code)
			assert.Equal(t, tt.wantOutput, strings.Contains(stdout, "built\n"))
			assert.Equal(t, tt.wantRunning, strings.HasPrefix(stdout, "Running...\n   sh -c echo built\n"))
		})
	}
}

func TestInvoker_MissingProgram(t *testing.T) {
	tests := []struct {
		name    string
		program string
	}{
		{"bare name", "definitely-not-a-real-driver"},
		{"path", filepath.Join(t.TempDir(), "missing", "python3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, domain.Invocation{
				Command: []string{tt.program, "-m", "numpy.f2py"},
			})

			assert.Equal(t, domain.LaunchFailed, code)
			assert.Empty(t, stdout)
			assert.Equal(t, "Couldn't find program: '"+tt.program+"'\n", stderr)
			assert.Equal(t, 1, strings.Count(stdout+stderr, "Couldn't find program"))
		})
	}
}

func TestInvoker_EnvironmentAndDir(t *testing.T) {
	t.Setenv("FFLAGS", "-g")
	dir := t.TempDir()

	inv := domain.Invocation{
		Command: []string{"sh", "-c", `printf '%s|%s|%s' "$FFLAGS" "$(pwd)" "$EXTRA"`},
		Dir:     dir,
		Env:     domain.Translation{HasFFlags: true, FFlags: "-O0"}.Env(os.Getenv("FFLAGS")),
		Policy:  domain.DisplayPolicy{AlwaysShow: true},
	}
	inv.Env["EXTRA"] = "x"

	_, stdout, _ := run(t, inv)

	realDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	parts := strings.Split(stdout, "|")
	require.Len(t, parts, 3)
	assert.Equal(t, "-g -O0", parts[0])
	gotDir, err := filepath.EvalSymlinks(parts[1])
	require.NoError(t, err)
	assert.Equal(t, realDir, gotDir)
	assert.Equal(t, "x", parts[2])
}

func TestInvoker_StdinClosed(t *testing.T) {
	code, stdout, _ := run(t, domain.Invocation{
		Command: []string{"sh", "-c", "cat; echo done"},
		Policy:  domain.DisplayPolicy{AlwaysShow: true},
	})
	assert.Equal(t, 0, code)
	assert.Equal(t, "done\n", stdout)
}

func TestInvoker_NotExecutable(t *testing.T) {
	script := filepath.Join(t.TempDir(), "driver")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), domain.FilePerm))

	code, _, stderr := run(t, domain.Invocation{Command: []string{script}})
	assert.Equal(t, domain.LaunchFailed, code)
	assert.Contains(t, stderr, "Couldn't find program")
}

func TestInvoker_RelativeProgramPath(t *testing.T) {
	writeDriver := func(t *testing.T, root string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o750))
		//nolint:gosec // Test driver must be executable
		require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "drv"), []byte("#!/bin/sh\necho ran\n"), 0o700))
	}

	t.Run("resolved against the working directory", func(t *testing.T) {
		dir := t.TempDir()
		writeDriver(t, dir)

		code, stdout, stderr := run(t, domain.Invocation{
			Command: []string{"bin/drv"},
			Dir:     dir,
			Policy:  domain.DisplayPolicy{AlwaysShow: true},
		})
		assert.Equal(t, 0, code)
		assert.Equal(t, "ran\n", stdout)
		assert.Empty(t, stderr)
	})

	t.Run("not resolved against the caller directory", func(t *testing.T) {
		cwd := t.TempDir()
		writeDriver(t, cwd)
		t.Chdir(cwd)

		code, _, stderr := run(t, domain.Invocation{Command: []string{"bin/drv"}, Dir: t.TempDir()})
		assert.Equal(t, domain.LaunchFailed, code)
		assert.Equal(t, "Couldn't find program: 'bin/drv'\n", stderr)
	})
}
