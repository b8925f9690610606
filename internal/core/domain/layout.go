package domain

import (
	"os"
	"path/filepath"
)

const (
	// AppDirName is the directory name used under the user cache and config dirs.
	AppDirName = "fmagic"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "fmagic.yaml"

	// StoreFileName is the name of the session store database.
	StoreFileName = "session.db"

	// ManifestFileName is the name of the artifact manifest inside a cache directory.
	ManifestFileName = "artifacts.msgpack"

	// CacheDirKey is the session store key holding the current cache directory.
	CacheDirKey = "fortranmagic_cache"

	// DefaultsKey is the session store key holding the saved default option line.
	DefaultsKey = "fortranmagic"

	// ModulePrefix prefixes every generated extension module identifier.
	ModulePrefix = "_fortran_magic_"

	// FreeFormSuffix is the source suffix for free-form Fortran.
	FreeFormSuffix = ".f90"

	// FixedFormSuffix is the source suffix for fixed-form Fortran.
	FixedFormSuffix = ".f"

	// FlagsEnvVar carries accumulated compiler flags to the driver.
	FlagsEnvVar = "FFLAGS"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCacheRoot returns the parent directory of all cache directories.
// It falls back to the temp dir when the user cache dir is unknown.
func DefaultCacheRoot() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, AppDirName)
}

// DefaultStorePath returns the default path of the session store database.
func DefaultStorePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, AppDirName, StoreFileName)
}
