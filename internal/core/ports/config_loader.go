package ports

import "go.trai.ch/fmagic/internal/core/domain"

// ConfigLoader defines the interface for loading the tool settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration discovered from the given working directory.
	// Defaults are returned when no configuration file exists.
	Load(cwd string) (*domain.Settings, error)
}
