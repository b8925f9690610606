package watcher

import (
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// ContentCache remembers the digest of each file it has seen.
type ContentCache struct {
	mu      sync.Mutex
	digests map[string]uint64
}

// NewContentCache creates an empty ContentCache.
func NewContentCache() *ContentCache {
	return &ContentCache{digests: make(map[string]uint64)}
}

// Changed reads path and reports whether its content differs from the last call.
// The first call for a path always reports a change.
func (c *ContentCache) Changed(path string) (bool, error) {
	//nolint:gosec // Path is provided by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to read watched file"), "path", path)
	}
	digest := xxhash.Sum64(data)

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, seen := c.digests[path]
	c.digests[path] = digest
	return !seen || prev != digest, nil
}
