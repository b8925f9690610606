// Package manifest keeps a msgpack index of the artifacts built into a cache directory.
package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/shamaton/msgpack/v2"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/zerr"
)

// Manifest implements ports.ArtifactManifest with one msgpack file per cache directory.
type Manifest struct {
	mu sync.Mutex
}

// New creates a new Manifest.
func New() *Manifest {
	return &Manifest{}
}

// Path returns the manifest file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, domain.ManifestFileName)
}

// Put adds or replaces the entry with the same module name.
func (m *Manifest) Put(dir string, entry domain.ManifestEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := read(dir)
	if err != nil {
		return err
	}

	entries = slices.DeleteFunc(entries, func(e domain.ManifestEntry) bool {
		return e.ModuleName == entry.ModuleName
	})
	entries = append(entries, entry)
	sortByBuildTime(entries)

	return write(dir, entries)
}

// List returns all entries ordered by build time.
func (m *Manifest) List(dir string) ([]domain.ManifestEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := read(dir)
	if err != nil {
		return nil, err
	}
	sortByBuildTime(entries)
	return entries, nil
}

func read(dir string) ([]domain.ManifestEntry, error) {
	path := Path(dir)

	//nolint:gosec // Path is derived from the cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.ManifestEntry{}, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrManifestReadFailed, err.Error()), "path", path)
	}
	if len(data) == 0 {
		return []domain.ManifestEntry{}, nil
	}

	var entries []domain.ManifestEntry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrManifestReadFailed, err.Error()), "path", path)
	}
	return entries, nil
}

// write replaces the manifest atomically through a temp file in the same directory.
func write(dir string, entries []domain.ManifestEntry) error {
	path := Path(dir)
	fail := func(err error) error {
		return zerr.With(zerr.Wrap(domain.ErrManifestWriteFailed, err.Error()), "path", path)
	}

	data, err := msgpack.Marshal(entries)
	if err != nil {
		return fail(err)
	}

	tmp, err := os.CreateTemp(dir, "."+domain.ManifestFileName+".*")
	if err != nil {
		return fail(err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fail(err)
	}
	return nil
}

func sortByBuildTime(entries []domain.ManifestEntry) {
	slices.SortStableFunc(entries, func(a, b domain.ManifestEntry) int {
		return a.BuiltAt.Compare(b.BuiltAt)
	})
}
