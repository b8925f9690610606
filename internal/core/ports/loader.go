package ports

import (
	"context"

	"go.trai.ch/fmagic/internal/core/domain"
)

// NativeLoader binds a built extension module into the host runtime.
//
//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type NativeLoader interface {
	// Load loads the binary at path as module name, with dir on the search path.
	Load(ctx context.Context, dir, path, name string) (*domain.ModuleHandle, error)

	// Exports returns the members of a loaded module.
	Exports(m *domain.ModuleHandle) map[string]domain.Export
}
