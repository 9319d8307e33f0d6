package service

import (
	"context"

	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"

	"github.com/rs/zerolog"
)

type auditService struct {
	store ports.AuditStore
	log   zerolog.Logger
}

// NewAuditService creates a new audit service.
// If store is nil, audit events are only written to the logger.
func NewAuditService(store ports.AuditStore, log zerolog.Logger) ports.AuditService {
	return &auditService{store: store, log: log}
}

// Record logs an audit event asynchronously (fire-and-forget).
func (s *auditService) Record(ctx context.Context, event *domain.AuditEvent) {
	go func() {
		s.log.Info().
			Str("action", string(event.Action)).
			Str("commitment", event.Commitment).
			Str("tx_hash", event.TxHash).
			Str("outcome", event.Outcome).
			Msg("audit")

		if s.store != nil {
			if err := s.store.Append(context.Background(), event); err != nil {
				s.log.Warn().Err(err).Str("action", string(event.Action)).Msg("failed to persist audit event")
			}
		}
	}()
}
