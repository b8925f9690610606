// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/fmagic/internal/adapters/cachedir"
	_ "go.trai.ch/fmagic/internal/adapters/config"
	_ "go.trai.ch/fmagic/internal/adapters/loader"
	_ "go.trai.ch/fmagic/internal/adapters/logger"
	_ "go.trai.ch/fmagic/internal/adapters/manifest"
	_ "go.trai.ch/fmagic/internal/adapters/shell"
	_ "go.trai.ch/fmagic/internal/adapters/store"
	_ "go.trai.ch/fmagic/internal/adapters/telemetry"
	_ "go.trai.ch/fmagic/internal/adapters/toolchain"
	_ "go.trai.ch/fmagic/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/fmagic/internal/app"
	_ "go.trai.ch/fmagic/internal/engine/builder"
)
