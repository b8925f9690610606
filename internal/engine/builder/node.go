package builder

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fmagic/internal/adapters/cachedir"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/adapters/loader"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/adapters/manifest"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/adapters/store"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/adapters/toolchain" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
)

// NodeID is the unique identifier for the builder Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			store.NodeID,
			cachedir.NodeID,
			shell.NodeID,
			toolchain.NodeID,
			loader.NodeID,
			manifest.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Builder, error) {
	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := graft.Dep[ports.SessionStore](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.ArtifactCache](ctx)
	if err != nil {
		return nil, err
	}

	invoker, err := graft.Dep[ports.ToolInvoker](ctx)
	if err != nil {
		return nil, err
	}

	chain, err := graft.Dep[ports.Toolchain](ctx)
	if err != nil {
		return nil, err
	}

	nativeLoader, err := graft.Dep[ports.NativeLoader](ctx)
	if err != nil {
		return nil, err
	}

	artifacts, err := graft.Dep[ports.ArtifactManifest](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(settings, sessions, cache, invoker, chain, nativeLoader, artifacts, log, tracer), nil
}
