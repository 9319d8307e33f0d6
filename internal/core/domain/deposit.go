package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DepositStatus represents the lifecycle state of a deposit as seen by the
// protocol. Records enter the store only once Committed; Revealed is reached
// on a confirmed withdrawal.
type DepositStatus string

const (
	DepositStatusCommitted DepositStatus = "COMMITTED"
	DepositStatusRevealed  DepositStatus = "REVEALED"
)

// DepositRecord ties an on-chain deposit to its off-chain secret. Created
// only after the deposit transaction is confirmed; never deleted — a revealed
// record is kept for history with Spent set.
type DepositRecord struct {
	Commitment common.Hash `json:"commitment"`
	Secret     Secret      `json:"-"` // Never serialized by accident; the store layer encodes it deliberately
	Amount     *big.Int    `json:"amount"`
	CreatedAt  time.Time   `json:"created_at"`
	Spent      bool        `json:"spent"`
	SpentTx    common.Hash `json:"spent_tx,omitempty"`
	SpentAt    *time.Time  `json:"spent_at,omitempty"`
}

// Status derives the lifecycle state from the spent flag.
func (r *DepositRecord) Status() DepositStatus {
	if r.Spent {
		return DepositStatusRevealed
	}
	return DepositStatusCommitted
}

// Verify recomputes keccak256 of the stored secret and compares it to the
// commitment key. A mismatch means the record is corrupt and its secret must
// not be submitted on-chain.
func (r *DepositRecord) Verify() bool {
	return VerifyCommitment(r.Commitment, r.Secret)
}

// DepositSummary is the secret-free view of a record, safe for listings and
// the status API.
type DepositSummary struct {
	Commitment common.Hash   `json:"commitment"`
	Amount     *big.Int      `json:"amount"`
	CreatedAt  time.Time     `json:"created_at"`
	Status     DepositStatus `json:"status"`
}

// Summary strips the secret from a record.
func (r *DepositRecord) Summary() DepositSummary {
	return DepositSummary{
		Commitment: r.Commitment,
		Amount:     new(big.Int).Set(r.Amount),
		CreatedAt:  r.CreatedAt,
		Status:     r.Status(),
	}
}

// TxReceipt is the confirmation handed back by the ledger for a mined
// transaction.
type TxReceipt struct {
	TxHash      common.Hash `json:"tx_hash"`
	BlockNumber uint64      `json:"block_number"`
	GasUsed     uint64      `json:"gas_used"`
}
