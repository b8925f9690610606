package shell

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvironment(t *testing.T) {
	env := resolveEnvironment(
		[]string{"PATH=/usr/bin", "FFLAGS=-g", "BROKEN"},
		map[string]string{"FFLAGS": "-g -O0", "NEW": "1"},
	)
	assert.Equal(t, []string{"FFLAGS=-g -O0", "NEW=1", "PATH=/usr/bin"}, env)
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "f2py")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, nil, 0o644))

	got, err := lookPath("f2py", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	_, err = lookPath("plain", []string{"PATH=" + dir})
	require.ErrorIs(t, err, exec.ErrNotFound)

	_, err = lookPath("f2py", []string{"HOME=/"})
	require.ErrorIs(t, err, exec.ErrNotFound)
}
