package domain

import "io"

// VerbosityDebug is the verbosity above which captured driver output is always shown.
const VerbosityDebug = 2

// DisplayPolicy decides whether captured driver output is shown.
type DisplayPolicy struct {
	AlwaysShow bool
	Verbosity  int
}

// Show reports whether output should be flushed for the given exit code.
func (p DisplayPolicy) Show(exitCode int) bool {
	return p.AlwaysShow || p.Verbosity > VerbosityDebug || exitCode != 0
}

// Invocation describes one external driver run.
type Invocation struct {
	// Command is the full argv, program first.
	Command []string
	// Dir is the working directory.
	Dir string
	// Env overrides entries of the current environment.
	Env    map[string]string
	Policy DisplayPolicy
	Stdout io.Writer
	Stderr io.Writer
}

// LaunchFailed is the exit code reported when the driver could not be started.
const LaunchFailed = -1
