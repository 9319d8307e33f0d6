package ports

import (
	"context"
	"math/big"

	"hashlock-escrow/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// VaultService manages the off-chain secret store.
type VaultService interface {
	// Generate draws a fresh 32-byte secret from the CSPRNG.
	Generate(ctx context.Context) (domain.Secret, error)
	// Persist writes a record to the store. Called only after the deposit
	// transaction has confirmed.
	Persist(ctx context.Context, record *domain.DepositRecord) error
	// Lookup fetches a record by commitment and verifies its integrity
	// before returning it.
	Lookup(ctx context.Context, commitment common.Hash) (*domain.DepositRecord, error)
	// List returns secret-free summaries of every record, oldest first.
	List(ctx context.Context) ([]domain.DepositSummary, error)
	// Validate re-hashes every stored secret against its commitment key.
	Validate(ctx context.Context) (*VaultReport, error)
	// MarkSpent flags a record as revealed after a confirmed withdrawal.
	MarkSpent(ctx context.Context, commitment common.Hash, spentTx common.Hash) error
}

// VaultReport is the outcome of a full-store integrity check.
type VaultReport struct {
	Total   int
	Intact  int
	Corrupt []common.Hash
}

// --- Service Ports (Business Logic) ---

// ProtocolService drives the two-phase commit/reveal flow against the chain.
type ProtocolService interface {
	Commit(ctx context.Context, req CommitRequest) (*CommitResult, error)
	Reveal(ctx context.Context, req RevealRequest) (*RevealResult, error)
	Balances(ctx context.Context) (*BalancesResult, error)
}

// CommitRequest holds validated input for a new deposit.
type CommitRequest struct {
	Amount *big.Int
}

// CommitResult reports a confirmed deposit. SecretHex is surfaced exactly
// once, to the operator terminal; it must never reach a log line.
//
// When the deposit confirmed but the secret could not be persisted, Commit
// returns this result together with a non-nil error so the caller can still
// show the secret before failing.
type CommitResult struct {
	Commitment common.Hash
	SecretHex  string
	Amount     *big.Int
	FeePaid    *big.Int
	DepositTx  common.Hash
	ApproveTx  *common.Hash // set when an allowance top-up was mined first
}

// RevealRequest holds validated input for a withdrawal.
type RevealRequest struct {
	Commitment common.Hash
	Recipient  common.Address
}

// RevealResult reports a confirmed withdrawal.
type RevealResult struct {
	Commitment common.Hash
	Amount     *big.Int
	Recipient  common.Address
	WithdrawTx common.Hash
}

// BalancesResult is the operator's funding picture in one read.
type BalancesResult struct {
	Account   common.Address
	Native    *big.Int
	Token     *big.Int
	Allowance *big.Int
	FeeAmount *big.Int
}

// AuditService records operator actions.
type AuditService interface {
	// Record logs and persists an audit event asynchronously
	// (fire-and-forget).
	Record(ctx context.Context, event *domain.AuditEvent)
}
