package postgres

import (
	"context"

	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"
)

type auditStore struct {
	pool Pool
}

// NewAuditStore creates a PostgreSQL-backed AuditStore.
func NewAuditStore(pool Pool) ports.AuditStore {
	return &auditStore{pool: pool}
}

func (r *auditStore) Append(ctx context.Context, event *domain.AuditEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_events (id, action, commitment, amount, tx_hash, outcome, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, string(event.Action), event.Commitment,
		event.Amount, event.TxHash, event.Outcome, event.CreatedAt,
	)
	return err
}
