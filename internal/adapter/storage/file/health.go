package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// HealthCheck implements ports.HealthChecker for the file store.
type HealthCheck struct {
	path string
}

// NewHealthCheck creates a file store health checker.
func NewHealthCheck(path string) *HealthCheck {
	return &HealthCheck{path: path}
}

// Ping verifies the store directory is reachable. A not-yet-created document
// is healthy; a vanished directory is not.
func (h *HealthCheck) Ping(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(h.path)); err != nil {
		return fmt.Errorf("store directory: %w", err)
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "file-store"
}
