package ports

import (
	"context"
	"errors"
	"time"

	"hashlock-escrow/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// ErrStoreMissing is returned by a DepositStore whose backing store does not
// exist yet (no document file, no hash key). Distinct from a miss on a single
// commitment, which is reported as a nil record.
var ErrStoreMissing = errors.New("deposit store does not exist")

// DepositStore defines persistence for deposit records, keyed by commitment.
// Get returns (nil, nil) when the commitment is absent from an existing store.
// Records are never deleted; a spent record stays for history.
type DepositStore interface {
	Put(ctx context.Context, record *domain.DepositRecord) error
	Get(ctx context.Context, commitment common.Hash) (*domain.DepositRecord, error)
	List(ctx context.Context) ([]*domain.DepositRecord, error)
	// MarkSpent flips the spent flag on an existing record. Errors if the
	// commitment is not present.
	MarkSpent(ctx context.Context, commitment common.Hash, spentTx common.Hash, spentAt time.Time) error
}

// AuditStore defines persistence for audit events (append-only).
type AuditStore interface {
	Append(ctx context.Context, event *domain.AuditEvent) error
}
