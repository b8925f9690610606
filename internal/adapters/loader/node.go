package loader

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fmagic/internal/adapters/config"
	"go.trai.ch/fmagic/internal/adapters/shell"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
)

// NodeID is the unique identifier for the native loader Graft node.
const NodeID graft.ID = "adapter.native_loader"

func init() {
	graft.Register(graft.Node[ports.NativeLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, shell.NodeID},
		Run: func(ctx context.Context) (ports.NativeLoader, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			invoker, err := graft.Dep[ports.ToolInvoker](ctx)
			if err != nil {
				return nil, err
			}
			return New(settings.Python, invoker), nil
		},
	})
}
