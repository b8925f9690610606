package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fmagic/internal/adapters/store"
	"go.trai.ch/fmagic/internal/core/domain"
)

func TestStore_MissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", domain.StoreFileName)
	s := store.New(path)

	_, err := s.Get(domain.DefaultsKey)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
	require.NoError(t, s.Delete(domain.DefaultsKey))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "reads must not create the database")
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", domain.StoreFileName)
	s := store.New(path)

	require.NoError(t, s.Set(domain.DefaultsKey, "--debug -v"))
	require.NoError(t, s.Set(domain.CacheDirKey, "/cache/0badcafe"))

	v, err := s.Get(domain.DefaultsKey)
	require.NoError(t, err)
	assert.Equal(t, "--debug -v", v)

	require.NoError(t, s.Set(domain.DefaultsKey, "--noopt"))
	v, err = s.Get(domain.DefaultsKey)
	require.NoError(t, err)
	assert.Equal(t, "--noopt", v)

	require.NoError(t, s.Delete(domain.DefaultsKey))
	_, err = s.Get(domain.DefaultsKey)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)

	v, err = s.Get(domain.CacheDirKey)
	require.NoError(t, err)
	assert.Equal(t, "/cache/0badcafe", v)
}

func TestStore_SharedBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), domain.StoreFileName)

	require.NoError(t, store.New(path).Set(domain.CacheDirKey, "/a"))
	v, err := store.New(path).Get(domain.CacheDirKey)
	require.NoError(t, err)
	assert.Equal(t, "/a", v)
}

func TestStore_OpenFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, domain.PrivateFilePerm))

	err := store.New(filepath.Join(blocker, domain.StoreFileName)).Set("k", "v")
	require.ErrorIs(t, err, domain.ErrStoreOpenFailed)
}
