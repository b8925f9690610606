package ports

import (
	"context"

	"go.trai.ch/fmagic/internal/core/domain"
)

// Toolchain reports facts about the host toolchain.
// Results are computed once per process.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	// Markers returns the toolchain facts that take part in unit identity.
	Markers(ctx context.Context) domain.EnvironmentMarkers

	// ExtensionSuffix returns the file suffix of native extension modules.
	ExtensionSuffix(ctx context.Context) string
}
