package cachedir_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fmagic/internal/adapters/cachedir"
	"go.trai.ch/fmagic/internal/core/domain"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

func sequence(tokens ...uint32) func() uint32 {
	i := 0
	return func() uint32 {
		tok := tokens[i%len(tokens)]
		i++
		return tok
	}
}

func TestOpen_CreatesAndRecords(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fmagic")
	var recorded []string

	c, err := cachedir.Open(root, "", cachedir.WithRecorder(func(dir string) {
		recorded = append(recorded, dir)
	}))
	require.NoError(t, err)

	dir := c.Dir()
	assert.Equal(t, root, filepath.Dir(dir))
	assert.Regexp(t, tokenPattern, filepath.Base(dir))
	assert.DirExists(t, dir)
	assert.Equal(t, []string{dir}, recorded)
	assert.Equal(t, root, c.Root())
}

func TestOpen_ReusesHint(t *testing.T) {
	root := t.TempDir()
	hint := filepath.Join(root, "0badcafe")
	require.NoError(t, os.Mkdir(hint, domain.DirPerm))

	called := false
	c, err := cachedir.Open(root, hint, cachedir.WithRecorder(func(string) { called = true }))
	require.NoError(t, err)

	assert.Equal(t, hint, c.Dir())
	assert.False(t, called, "a reused directory is not recorded again")
}

func TestOpen_IgnoresStaleHint(t *testing.T) {
	root := t.TempDir()

	c, err := cachedir.Open(root, filepath.Join(root, "gone"),
		cachedir.WithTokenSource(sequence(0x1)))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "00000001"), c.Dir())

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, domain.PrivateFilePerm))
	c, err = cachedir.Open(root, file, cachedir.WithTokenSource(sequence(0x2)))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "00000002"), c.Dir())
}

func TestOpen_RetriesOnCollision(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "0000000a"), domain.DirPerm))

	c, err := cachedir.Open(root, "", cachedir.WithTokenSource(sequence(0xa, 0xa, 0xb)))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "0000000b"), c.Dir())
}

func TestOpen_GivesUpAfterBoundedAttempts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "0000000a"), domain.DirPerm))

	_, err := cachedir.Open(root, "", cachedir.WithTokenSource(sequence(0xa)))
	require.ErrorIs(t, err, domain.ErrCacheInitFailed)
}

func TestEnsureLive(t *testing.T) {
	root := t.TempDir()
	c, err := cachedir.Open(root, "")
	require.NoError(t, err)
	dir := c.Dir()

	t.Run("keeps a live directory", func(t *testing.T) {
		assert.Equal(t, dir, c.EnsureLive())
	})

	t.Run("recreates the same path after removal", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(root))
		assert.Equal(t, dir, c.EnsureLive())
		assert.DirExists(t, dir)
	})
}

func TestReset(t *testing.T) {
	root := t.TempDir()
	var recorded []string
	c, err := cachedir.Open(root, "",
		cachedir.WithTokenSource(sequence(0x1, 0x2)),
		cachedir.WithRecorder(func(dir string) { recorded = append(recorded, dir) }),
	)
	require.NoError(t, err)
	old := c.Dir()
	stale := filepath.Join(old, "_fortran_magic_x.so")
	require.NoError(t, os.WriteFile(stale, []byte("elf"), domain.FilePerm))

	dir := c.Reset()

	assert.NotEqual(t, old, dir)
	assert.Equal(t, dir, c.Dir())
	assert.DirExists(t, dir)
	assert.NoFileExists(t, stale)
	assert.Equal(t, []string{old, dir}, recorded)
}
