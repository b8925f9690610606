package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/engine/registry"
)

func TestRegistry(t *testing.T) {
	r := registry.New()

	_, ok := r.Get("_fortran_magic_a")
	assert.False(t, ok)

	r.Put(&domain.ArtifactRecord{ModuleName: "_fortran_magic_b", BinaryPath: "/b.so"})
	r.Put(&domain.ArtifactRecord{ModuleName: "_fortran_magic_a", BinaryPath: "/a.so"})

	rec, ok := r.Get("_fortran_magic_a")
	require.True(t, ok)
	assert.Equal(t, "/a.so", rec.BinaryPath)

	r.Put(&domain.ArtifactRecord{ModuleName: "_fortran_magic_a", BinaryPath: "/a2.so"})
	assert.Equal(t, 2, r.Len())

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "_fortran_magic_a", all[0].ModuleName)
	assert.Equal(t, "/a2.so", all[0].BinaryPath)
	assert.Equal(t, "_fortran_magic_b", all[1].ModuleName)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := registry.New()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Go(func() {
			name := string(rune('a' + i%8))
			r.Put(&domain.ArtifactRecord{ModuleName: name})
			_, _ = r.Get(name)
		})
	}
	wg.Wait()

	assert.Equal(t, 8, r.Len())
}
