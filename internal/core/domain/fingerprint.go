package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"
)

// Fingerprint is the hex encoded identity of a compilation unit.
type Fingerprint string

// Fingerprint computes the deterministic identity of the unit.
//
// Every field is written length-prefixed and NUL-terminated in a fixed order,
// so two different field layouts can never produce the same digest input.
func (u CompilationUnit) Fingerprint() Fingerprint {
	h := sha256.New()
	for _, field := range []string{
		u.Source,
		u.InvocationLine,
		u.PersistedLine,
		u.CacheDir,
		u.Markers.InterpreterVersion,
		u.Markers.InterpreterPath,
		u.Markers.ToolchainVersion,
		string(u.Markers.Backend),
	} {
		writeField(h, field)
	}
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

func writeField(h hash.Hash, field string) {
	_, _ = h.Write([]byte(strconv.Itoa(len(field))))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(field))
	_, _ = h.Write([]byte{0})
}

// ModuleName returns the extension module identifier derived from the fingerprint.
func (f Fingerprint) ModuleName() string {
	return ModulePrefix + string(f)
}

// String returns the hex digest.
func (f Fingerprint) String() string {
	return string(f)
}
