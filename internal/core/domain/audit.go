package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited operator action.
type AuditAction string

const (
	AuditActionDeposit  AuditAction = "DEPOSIT"
	AuditActionApprove  AuditAction = "APPROVE"
	AuditActionWithdraw AuditAction = "WITHDRAW"
)

// AuditEvent records a single operator action against the escrow. The secret
// never appears here; commitments and transaction hashes are enough to
// reconcile against the chain.
type AuditEvent struct {
	ID         uuid.UUID   `json:"id"`
	Action     AuditAction `json:"action"`
	Commitment string      `json:"commitment,omitempty"`
	Amount     string      `json:"amount,omitempty"`
	TxHash     string      `json:"tx_hash,omitempty"`
	Outcome    string      `json:"outcome"` // SUCCESS or the failed error code
	CreatedAt  time.Time   `json:"created_at"`
}
