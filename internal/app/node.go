package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fmagic/internal/adapters/cachedir" //nolint:depguard // Wired in app layer
	"go.trai.ch/fmagic/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/fmagic/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/fmagic/internal/adapters/manifest" //nolint:depguard // Wired in app layer
	"go.trai.ch/fmagic/internal/adapters/shell"    //nolint:depguard // Wired in app layer
	"go.trai.ch/fmagic/internal/adapters/store"    //nolint:depguard // Wired in app layer
	"go.trai.ch/fmagic/internal/adapters/watcher"  //nolint:depguard // Wired in app layer
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
	"go.trai.ch/fmagic/internal/engine/builder"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the command line front end needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			builder.NodeID,
			store.NodeID,
			cachedir.NodeID,
			shell.NodeID,
			manifest.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}

	b, err := graft.Dep[*builder.Builder](ctx)
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

	artifacts, err := graft.Dep[ports.ArtifactManifest](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(settings, b, sessions, cache, invoker, artifacts, w, log), nil
}
