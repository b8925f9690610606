// Package registry holds the artifacts built by the running process.
package registry

import (
	"sync"

	"github.com/google/btree"
	"go.trai.ch/fmagic/internal/core/domain"
)

const degree = 16

// Registry is an in-process index of artifact records keyed by module name.
// Records are never evicted; a new process starts empty.
type Registry struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[*domain.ArtifactRecord]
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		tree: btree.NewG(degree, func(a, b *domain.ArtifactRecord) bool {
			return a.ModuleName < b.ModuleName
		}),
	}
}

// Get returns the record registered under the module name.
func (r *Registry) Get(moduleName string) (*domain.ArtifactRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Get(&domain.ArtifactRecord{ModuleName: moduleName})
}

// Put registers a record, replacing any record with the same module name.
func (r *Registry) Put(rec *domain.ArtifactRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree.ReplaceOrInsert(rec)
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Len()
}

// All returns the records ordered by module name.
func (r *Registry) All() []*domain.ArtifactRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.ArtifactRecord, 0, r.tree.Len())
	r.tree.Ascend(func(rec *domain.ArtifactRecord) bool {
		out = append(out, rec)
		return true
	})
	return out
}
