package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"
	"hashlock-escrow/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProtocolServiceImpl implements ports.ProtocolService.
type ProtocolServiceImpl struct {
	vault  ports.VaultService
	ledger ports.LedgerClient
	audit  ports.AuditService // nil = audit disabled
	denoms domain.Denominations
	log    zerolog.Logger
}

// NewProtocolService creates a new ProtocolServiceImpl.
func NewProtocolService(
	vault ports.VaultService,
	ledger ports.LedgerClient,
	audit ports.AuditService,
	denoms domain.Denominations,
	log zerolog.Logger,
) *ProtocolServiceImpl {
	return &ProtocolServiceImpl{
		vault:  vault,
		ledger: ledger,
		audit:  audit,
		denoms: denoms,
		log:    log,
	}
}

// Commit runs the deposit phase: fee precondition, amount validation, balance
// check, just-in-time allowance, secret generation, on-chain deposit, then
// persistence. Nothing store-visible changes unless every step through
// persistence succeeds.
func (s *ProtocolServiceImpl) Commit(ctx context.Context, req ports.CommitRequest) (*ports.CommitResult, error) {
	// Fee precondition: the escrow pulls its fee from the fee token at
	// deposit time.
	fee, err := s.ledger.FeeAmount(ctx)
	if err != nil {
		return nil, apperror.ErrLedgerUnavailable(fmt.Errorf("read fee: %w", err))
	}
	tokenBal, err := s.ledger.TokenBalance(ctx)
	if err != nil {
		return nil, apperror.ErrLedgerUnavailable(fmt.Errorf("read token balance: %w", err))
	}
	if tokenBal.Cmp(fee) < 0 {
		return nil, apperror.ErrInsufficientFee(fee.String(), tokenBal.String())
	}

	// Amount must be a member of the denomination allow-list. Equal-amount
	// deposits stay indistinguishable from each other.
	if !s.denoms.Contains(req.Amount) {
		return nil, apperror.ErrInvalidAmount(s.denoms.String())
	}

	// Native balance must cover the principal.
	nativeBal, err := s.ledger.NativeBalance(ctx)
	if err != nil {
		return nil, apperror.ErrLedgerUnavailable(fmt.Errorf("read native balance: %w", err))
	}
	if nativeBal.Cmp(req.Amount) < 0 {
		return nil, apperror.ErrInsufficientBalance(req.Amount.String(), nativeBal.String())
	}

	// Just-in-time approval: top up the allowance only when it cannot cover
	// the fee, and wait for the approval to mine before depositing.
	allowance, err := s.ledger.Allowance(ctx)
	if err != nil {
		return nil, apperror.ErrLedgerUnavailable(fmt.Errorf("read allowance: %w", err))
	}
	var approveTx *common.Hash
	if allowance.Cmp(fee) < 0 {
		receipt, err := s.ledger.Approve(ctx, fee)
		if err != nil {
			return nil, apperror.ErrApprovalFailed(err)
		}
		approveTx = &receipt.TxHash

		s.log.Info().
			Str("tx", receipt.TxHash.Hex()).
			Str("fee", fee.String()).
			Msg("fee allowance approved")
		s.recordAudit(ctx, domain.AuditActionApprove, "", fee, receipt.TxHash)
	}

	// Draw the secret. From here until persistence it lives only in memory.
	secret, err := s.vault.Generate(ctx)
	if err != nil {
		return nil, err
	}
	commitment := secret.Commitment()

	// Submit the deposit and wait for confirmation. A reverted or timed-out
	// transaction is reported, never resubmitted; retrying a value transfer
	// blind risks a duplicate spend.
	receipt, err := s.ledger.Deposit(ctx, commitment, req.Amount)
	if err != nil {
		return nil, apperror.ErrDepositRejected(err)
	}

	record := &domain.DepositRecord{
		Commitment: commitment,
		Secret:     secret,
		Amount:     new(big.Int).Set(req.Amount),
		CreatedAt:  time.Now().UTC(),
	}

	result := &ports.CommitResult{
		Commitment: commitment,
		SecretHex:  secret.Hex(),
		Amount:     new(big.Int).Set(req.Amount),
		FeePaid:    fee,
		DepositTx:  receipt.TxHash,
		ApproveTx:  approveTx,
	}

	// The deposit is confirmed on-chain at this point. If the record cannot
	// be written, the one-time display is the only surviving copy of the
	// secret, so the result is handed back alongside the error.
	if err := s.vault.Persist(ctx, record); err != nil {
		s.log.Error().
			Err(err).
			Bool("critical", true).
			Str("commitment", commitment.Hex()).
			Str("deposit_tx", receipt.TxHash.Hex()).
			Msg("deposit confirmed on-chain but record was not persisted")
		return result, apperror.ErrSecretNotPersisted(err)
	}

	s.recordAudit(ctx, domain.AuditActionDeposit, commitment.Hex(), req.Amount, receipt.TxHash)

	s.log.Info().
		Str("commitment", commitment.Hex()).
		Str("amount", req.Amount.String()).
		Str("tx", receipt.TxHash.Hex()).
		Uint64("block", receipt.BlockNumber).
		Msg("deposit committed")

	return result, nil
}

// Reveal runs the withdrawal phase: record lookup (with integrity check),
// double-spend guard, on-chain withdrawal, then spent marking.
func (s *ProtocolServiceImpl) Reveal(ctx context.Context, req ports.RevealRequest) (*ports.RevealResult, error) {
	// Lookup verifies the stored secret against its commitment key before
	// returning, so a corrupt record fails here instead of on-chain.
	record, err := s.vault.Lookup(ctx, req.Commitment)
	if err != nil {
		return nil, err
	}

	// Refuse a second reveal. The on-chain deposit is already emptied and a
	// resubmission would only burn gas.
	if record.Spent {
		return nil, apperror.ErrAlreadySpent(req.Commitment.Hex())
	}

	// Submit the withdrawal carrying the raw secret and wait for
	// confirmation.
	receipt, err := s.ledger.Withdraw(ctx, record.Secret, req.Recipient)
	if err != nil {
		return nil, apperror.ErrWithdrawalRejected(err)
	}

	// Mark spent, best-effort: the funds have moved either way, and the
	// record stays in the store for history.
	if err := s.vault.MarkSpent(ctx, req.Commitment, receipt.TxHash); err != nil {
		s.log.Warn().
			Err(err).
			Str("commitment", req.Commitment.Hex()).
			Msg("withdrawal confirmed but record was not marked spent")
	}

	s.recordAudit(ctx, domain.AuditActionWithdraw, req.Commitment.Hex(), record.Amount, receipt.TxHash)

	s.log.Info().
		Str("commitment", req.Commitment.Hex()).
		Str("recipient", req.Recipient.Hex()).
		Str("tx", receipt.TxHash.Hex()).
		Msg("withdrawal revealed")

	return &ports.RevealResult{
		Commitment: req.Commitment,
		Amount:     new(big.Int).Set(record.Amount),
		Recipient:  req.Recipient,
		WithdrawTx: receipt.TxHash,
	}, nil
}

// Balances reads the operator's funding picture in one pass.
func (s *ProtocolServiceImpl) Balances(ctx context.Context) (*ports.BalancesResult, error) {
	native, err := s.ledger.NativeBalance(ctx)
	if err != nil {
		return nil, apperror.ErrLedgerUnavailable(fmt.Errorf("read native balance: %w", err))
	}
	token, err := s.ledger.TokenBalance(ctx)
	if err != nil {
		return nil, apperror.ErrLedgerUnavailable(fmt.Errorf("read token balance: %w", err))
	}
	allowance, err := s.ledger.Allowance(ctx)
	if err != nil {
		return nil, apperror.ErrLedgerUnavailable(fmt.Errorf("read allowance: %w", err))
	}
	fee, err := s.ledger.FeeAmount(ctx)
	if err != nil {
		return nil, apperror.ErrLedgerUnavailable(fmt.Errorf("read fee: %w", err))
	}

	return &ports.BalancesResult{
		Account:   s.ledger.Account(),
		Native:    native,
		Token:     token,
		Allowance: allowance,
		FeeAmount: fee,
	}, nil
}

// recordAudit emits an audit event for a successful write operation.
func (s *ProtocolServiceImpl) recordAudit(ctx context.Context, action domain.AuditAction, commitment string, amount *big.Int, tx common.Hash) {
	if s.audit == nil {
		return
	}
	event := &domain.AuditEvent{
		ID:         uuid.New(),
		Action:     action,
		Commitment: commitment,
		TxHash:     tx.Hex(),
		Outcome:    "SUCCESS",
		CreatedAt:  time.Now().UTC(),
	}
	if amount != nil {
		event.Amount = amount.String()
	}
	s.audit.Record(ctx, event)
}
