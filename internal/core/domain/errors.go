package domain

import "go.trai.ch/zerr"

var (
	// ErrBuildFailed is returned when the driver reports a failed build or cannot be launched.
	ErrBuildFailed = zerr.New("f2py failed, see output")

	// ErrLoadFailed is returned when a freshly built artifact cannot be loaded.
	ErrLoadFailed = zerr.New("failed to load extension module")

	// ErrInvalidOptions is returned when an option line cannot be parsed.
	ErrInvalidOptions = zerr.New("invalid options")

	// ErrKeyNotFound is returned by the session store when a key has no value.
	ErrKeyNotFound = zerr.New("no such key")

	// ErrStoreOpenFailed is returned when the session store database cannot be opened.
	ErrStoreOpenFailed = zerr.New("failed to open session store")

	// ErrCacheInitFailed is returned when no cache directory could be created.
	ErrCacheInitFailed = zerr.New("failed to initialize cache directory")

	// ErrSourceWriteFailed is returned when the cell source cannot be written to the cache.
	ErrSourceWriteFailed = zerr.New("failed to write source file")

	// ErrManifestReadFailed is returned when the artifact manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read artifact manifest")

	// ErrManifestWriteFailed is returned when the artifact manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write artifact manifest")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidBackend is returned when the configured build backend is unknown.
	ErrInvalidBackend = zerr.New("invalid backend, expected 'meson' or 'distutils'")

	// ErrToolchainQuery is returned when the host interpreter cannot be queried.
	ErrToolchainQuery = zerr.New("failed to query interpreter")

	// ErrScriptParseFailed is returned when a session script is malformed.
	ErrScriptParseFailed = zerr.New("failed to parse session script")

	// ErrNoSource is returned when a build request has no source file.
	ErrNoSource = zerr.New("no source file specified")
)
