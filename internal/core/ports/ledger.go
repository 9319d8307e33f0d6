package ports

import (
	"context"
	"math/big"

	"hashlock-escrow/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// LedgerClient is the chain-facing port. Read methods are scoped to the
// operator account and escrow contract the client was built with; write
// methods sign with the operator key and block until the transaction is
// mined or the confirmation window runs out.
type LedgerClient interface {
	// FeeAmount reads the escrow's current per-deposit fee, denominated in
	// the fee token's minor units.
	FeeAmount(ctx context.Context) (*big.Int, error)
	// TokenBalance reads the operator's fee-token balance.
	TokenBalance(ctx context.Context) (*big.Int, error)
	// NativeBalance reads the operator's native-coin balance.
	NativeBalance(ctx context.Context) (*big.Int, error)
	// Allowance reads the fee-token allowance granted by the operator to the
	// escrow contract.
	Allowance(ctx context.Context) (*big.Int, error)

	// Approve grants the escrow contract a fee-token allowance.
	Approve(ctx context.Context, amount *big.Int) (*domain.TxReceipt, error)
	// Deposit locks amount native coins under commitment.
	Deposit(ctx context.Context, commitment common.Hash, amount *big.Int) (*domain.TxReceipt, error)
	// Withdraw reveals secret on-chain, releasing the matching deposit to
	// recipient.
	Withdraw(ctx context.Context, secret domain.Secret, recipient common.Address) (*domain.TxReceipt, error)

	// Account returns the operator address the client signs with.
	Account() common.Address
	// EscrowAddress returns the escrow contract address.
	EscrowAddress() common.Address
}
