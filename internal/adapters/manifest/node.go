package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fmagic/internal/core/ports"
)

// NodeID is the unique identifier for the artifact manifest Graft node.
const NodeID graft.ID = "adapter.artifact_manifest"

func init() {
	graft.Register(graft.Node[ports.ArtifactManifest]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ArtifactManifest, error) {
			return New(), nil
		},
	})
}
