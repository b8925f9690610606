package domain

import (
	"slices"
	"strings"
	"time"
)

// ReservedPrefix marks module members that are never exported.
const ReservedPrefix = "__"

// Export is a named value exported by a loaded module.
type Export struct {
	Name     string `json:"name" msgpack:"name"`
	Kind     string `json:"kind" msgpack:"kind"`
	Doc      string `json:"doc,omitempty" msgpack:"doc"`
	Callable bool   `json:"callable" msgpack:"callable"`
	Module   string `json:"-" msgpack:"module"`
	// Source is the cell source the export was built from.
	Source string `json:"-" msgpack:"-"`
}

// ModuleHandle is a native module bound into the process.
type ModuleHandle struct {
	Name    string
	Path    string
	Exports map[string]Export
}

// PublicNames returns the sorted export names without the reserved prefix.
func (m *ModuleHandle) PublicNames() []string {
	names := make([]string, 0, len(m.Exports))
	for name := range m.Exports {
		if strings.HasPrefix(name, ReservedPrefix) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ArtifactRecord maps a fingerprint to its loaded module and on-disk paths.
type ArtifactRecord struct {
	Fingerprint Fingerprint
	ModuleName  string
	SourcePath  string
	BinaryPath  string
	Digest      uint64
	BuiltAt     time.Time
	Module      *ModuleHandle
}

// ManifestEntry is the on-disk form of an ArtifactRecord.
type ManifestEntry struct {
	Fingerprint string    `msgpack:"fingerprint"`
	ModuleName  string    `msgpack:"module"`
	SourcePath  string    `msgpack:"source"`
	BinaryPath  string    `msgpack:"binary"`
	Digest      uint64    `msgpack:"digest"`
	BuiltAt     time.Time `msgpack:"built_at"`
	Exports     []string  `msgpack:"exports"`
}

// Entry converts the record into its manifest form.
func (r *ArtifactRecord) Entry() ManifestEntry {
	var exports []string
	if r.Module != nil {
		exports = r.Module.PublicNames()
	}
	return ManifestEntry{
		Fingerprint: r.Fingerprint.String(),
		ModuleName:  r.ModuleName,
		SourcePath:  r.SourcePath,
		BinaryPath:  r.BinaryPath,
		Digest:      r.Digest,
		BuiltAt:     r.BuiltAt,
		Exports:     exports,
	}
}

// Namespace is the destination scope symbols are exported into.
type Namespace map[string]Export

// Merge copies every public export of the module into the namespace,
// attaching source as provenance. It returns the merged names in order.
func (ns Namespace) Merge(m *ModuleHandle, source string) []string {
	names := m.PublicNames()
	for _, name := range names {
		export := m.Exports[name]
		export.Name = name
		export.Module = m.Name
		export.Source = source
		ns[name] = export
	}
	return names
}

// Names returns the sorted names in the namespace.
func (ns Namespace) Names() []string {
	names := make([]string, 0, len(ns))
	for name := range ns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
