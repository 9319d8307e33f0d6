package eth

import (
	"context"
)

// HealthCheck implements ports.HealthChecker for the ledger endpoint.
type HealthCheck struct {
	client *Client
}

// NewHealthCheck creates a ledger health checker.
func NewHealthCheck(client *Client) *HealthCheck {
	return &HealthCheck{client: client}
}

// Ping checks node connectivity.
func (h *HealthCheck) Ping(ctx context.Context) error {
	_, err := h.client.eth.BlockNumber(ctx)
	return err
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "ledger"
}
