package ports

// ArtifactCache owns the directory build artifacts are written to.
//
// All failures are recovered internally; the only observable effect of a
// recovery is a different Dir.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ArtifactCache interface {
	// Dir returns the current cache directory.
	Dir() string

	// Root returns the directory cache directories are created under.
	Root() string

	// EnsureLive recreates the current directory if it disappeared.
	EnsureLive() string

	// Reset removes the whole cache root and starts over with a new directory.
	Reset() string
}
