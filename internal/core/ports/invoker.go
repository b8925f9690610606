// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/fmagic/internal/core/domain"
)

// ToolInvoker defines the interface for running the external compiler driver.
//
//go:generate mockgen -source=invoker.go -destination=mocks/mock_invoker.go -package=mocks
type ToolInvoker interface {
	// Run executes the invocation and returns the driver's exit code.
	//
	// A program that cannot be found is reported on the invocation's Stderr
	// and yields domain.LaunchFailed with a nil error. A non-nil error means
	// the process could not be started for another reason.
	Run(ctx context.Context, inv domain.Invocation) (int, error)
}
