package domain

import "strings"

// EnvironmentMarkers identify the toolchain a unit is built with.
type EnvironmentMarkers struct {
	// InterpreterVersion is the host interpreter version tuple, e.g. "3.12.1".
	InterpreterVersion string
	// InterpreterPath is the host interpreter executable.
	InterpreterPath string
	// ToolchainVersion is the compiler driver version string.
	ToolchainVersion string
	// Backend is the driver build backend.
	Backend Backend
}

// CompilationUnit is the logical input to a single build request.
type CompilationUnit struct {
	Source         string
	InvocationLine string
	PersistedLine  string
	CacheDir       string
	Markers        EnvironmentMarkers
}

// NewCompilationUnit creates a unit with normalized source text.
func NewCompilationUnit(source, invocation, persisted, cacheDir string, markers EnvironmentMarkers) CompilationUnit {
	return CompilationUnit{
		Source:         NormalizeSource(source),
		InvocationLine: invocation,
		PersistedLine:  persisted,
		CacheDir:       cacheDir,
		Markers:        markers,
	}
}

// NormalizeSource appends a trailing newline when the source lacks one.
func NormalizeSource(source string) string {
	if strings.HasSuffix(source, "\n") {
		return source
	}
	return source + "\n"
}
