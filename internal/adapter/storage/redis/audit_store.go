package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

const auditKey = "escrow:audit"

// auditStore appends audit events to a Redis list in arrival order.
type auditStore struct {
	client *goredis.Client
	key    string
}

// NewAuditStore creates a Redis-backed audit store.
func NewAuditStore(client *goredis.Client) ports.AuditStore {
	return &auditStore{client: client, key: auditKey}
}

// Append pushes one event onto the tail of the audit list.
func (s *auditStore) Append(ctx context.Context, event *domain.AuditEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("redis audit append: %w", err)
	}
	return nil
}
