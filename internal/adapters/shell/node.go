package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fmagic/internal/core/ports"
)

// NodeID is the unique identifier for the tool invoker Graft node.
const NodeID graft.ID = "adapter.tool_invoker"

func init() {
	graft.Register(graft.Node[ports.ToolInvoker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.ToolInvoker, error) {
			return NewInvoker(), nil
		},
	})
}
