package domain

// Backend selects the driver build backend and its argument conventions.
type Backend string

const (
	// BackendMeson is the current f2py build backend.
	BackendMeson Backend = "meson"
	// BackendDistutils is the legacy f2py build backend.
	BackendDistutils Backend = "distutils"
)

// Valid reports whether the backend is known.
func (b Backend) Valid() bool {
	return b == BackendMeson || b == BackendDistutils
}

// Settings is the resolved tool configuration.
type Settings struct {
	// Python is the host interpreter used to run and query the driver.
	Python string
	// Driver is the driver argv prefix.
	Driver    []string
	Backend   Backend
	CacheRoot string
	StorePath string
	Trace     bool
}

// DefaultSettings returns the settings used when no config file is present.
func DefaultSettings() *Settings {
	return &Settings{
		Python:    "python3",
		Driver:    []string{"python3", "-m", "numpy.f2py"},
		Backend:   BackendMeson,
		CacheRoot: DefaultCacheRoot(),
		StorePath: DefaultStorePath(),
	}
}
