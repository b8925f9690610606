package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fmagic/internal/adapters/config"
	"go.trai.ch/fmagic/internal/adapters/logger"
	"go.trai.ch/fmagic/internal/adapters/shell"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain Graft node.
const NodeID graft.ID = "adapter.toolchain"

func init() {
	graft.Register(graft.Node[ports.Toolchain]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Toolchain, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			invoker, err := graft.Dep[ports.ToolInvoker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(settings, invoker, log), nil
		},
	})
}
