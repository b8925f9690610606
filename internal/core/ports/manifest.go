package ports

import "go.trai.ch/fmagic/internal/core/domain"

// ArtifactManifest records built artifacts next to them in a cache directory.
// It is informational and never consulted to decide reuse.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ArtifactManifest interface {
	// Put adds or replaces the entry for the entry's module name.
	Put(dir string, entry domain.ManifestEntry) error

	// List returns all entries ordered by build time.
	// A missing manifest yields an empty list.
	List(dir string) ([]domain.ManifestEntry, error)
}
