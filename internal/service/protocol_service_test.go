package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"
	"hashlock-escrow/internal/core/ports/mocks"
	"hashlock-escrow/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type protocolTestDeps struct {
	svc    *ProtocolServiceImpl
	vault  *mocks.MockVaultService
	ledger *mocks.MockLedgerClient
	ctrl   *gomock.Controller
}

func setupProtocolService(t *testing.T) *protocolTestDeps {
	ctrl := gomock.NewController(t)
	d := &protocolTestDeps{
		vault:  mocks.NewMockVaultService(ctrl),
		ledger: mocks.NewMockLedgerClient(ctrl),
		ctrl:   ctrl,
	}
	d.svc = NewProtocolService(d.vault, d.ledger, nil, domain.DefaultDenominations(), newTestLogger())
	return d
}

func testSecret(seed byte) domain.Secret {
	var s domain.Secret
	s[0] = seed
	s[31] = ^seed
	return s
}

func receiptFor(label string) *domain.TxReceipt {
	return &domain.TxReceipt{
		TxHash:      domain.Keccak256([]byte(label)),
		BlockNumber: 42,
		GasUsed:     90000,
	}
}

// expectFundedLedger sets up the read-side preconditions for a commit that
// should reach the deposit step: fee 5, token balance 10, native balance
// 5000, allowance already covering the fee.
func (d *protocolTestDeps) expectFundedLedger(ctx context.Context) {
	d.ledger.EXPECT().FeeAmount(ctx).Return(big.NewInt(5), nil)
	d.ledger.EXPECT().TokenBalance(ctx).Return(big.NewInt(10), nil)
	d.ledger.EXPECT().NativeBalance(ctx).Return(big.NewInt(5000), nil)
	d.ledger.EXPECT().Allowance(ctx).Return(big.NewInt(5), nil)
}

// ==================== Commit Tests ====================

func TestProtocolService_Commit_Success(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	secret := testSecret(0xaa)
	commitment := secret.Commitment()
	depositReceipt := receiptFor("deposit")

	d.expectFundedLedger(ctx)
	d.vault.EXPECT().Generate(ctx).Return(secret, nil)
	d.ledger.EXPECT().Deposit(ctx, commitment, big.NewInt(1000)).Return(depositReceipt, nil)
	d.vault.EXPECT().Persist(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, record *domain.DepositRecord) error {
			assert.True(t, record.Verify())
			assert.Equal(t, commitment, record.Commitment)
			assert.Equal(t, int64(1000), record.Amount.Int64())
			return nil
		},
	)

	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, commitment, result.Commitment)
	assert.Equal(t, secret.Hex(), result.SecretHex)
	assert.Equal(t, int64(1000), result.Amount.Int64())
	assert.Equal(t, int64(5), result.FeePaid.Int64())
	assert.Equal(t, depositReceipt.TxHash, result.DepositTx)
	assert.Nil(t, result.ApproveTx)
}

func TestProtocolService_Commit_InsufficientFee(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ledger.EXPECT().FeeAmount(ctx).Return(big.NewInt(5), nil)
	d.ledger.EXPECT().TokenBalance(ctx).Return(big.NewInt(3), nil)

	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	assert.Nil(t, result)
	assertAppError(t, err, "ESC_001")
}

func TestProtocolService_Commit_InvalidAmount(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ledger.EXPECT().FeeAmount(ctx).Return(big.NewInt(5), nil)
	d.ledger.EXPECT().TokenBalance(ctx).Return(big.NewInt(10), nil)

	// 1500 is not in the allow-list; no transaction is ever submitted and
	// no secret is drawn.
	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1500)})
	assert.Nil(t, result)
	assertAppError(t, err, "ESC_002")
}

func TestProtocolService_Commit_InsufficientBalance(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ledger.EXPECT().FeeAmount(ctx).Return(big.NewInt(5), nil)
	d.ledger.EXPECT().TokenBalance(ctx).Return(big.NewInt(10), nil)
	d.ledger.EXPECT().NativeBalance(ctx).Return(big.NewInt(500), nil)

	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	assert.Nil(t, result)
	assertAppError(t, err, "ESC_003")
}

func TestProtocolService_Commit_ApprovesWhenAllowanceShort(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	secret := testSecret(0xbb)
	approveReceipt := receiptFor("approve")
	depositReceipt := receiptFor("deposit")

	d.ledger.EXPECT().FeeAmount(ctx).Return(big.NewInt(5), nil)
	d.ledger.EXPECT().TokenBalance(ctx).Return(big.NewInt(10), nil)
	d.ledger.EXPECT().NativeBalance(ctx).Return(big.NewInt(5000), nil)
	d.ledger.EXPECT().Allowance(ctx).Return(big.NewInt(2), nil)
	d.ledger.EXPECT().Approve(ctx, big.NewInt(5)).Return(approveReceipt, nil)
	d.vault.EXPECT().Generate(ctx).Return(secret, nil)
	d.ledger.EXPECT().Deposit(ctx, secret.Commitment(), big.NewInt(1000)).Return(depositReceipt, nil)
	d.vault.EXPECT().Persist(ctx, gomock.Any()).Return(nil)

	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	require.NoError(t, err)
	require.NotNil(t, result.ApproveTx)
	assert.Equal(t, approveReceipt.TxHash, *result.ApproveTx)
	assert.Equal(t, depositReceipt.TxHash, result.DepositTx)
}

func TestProtocolService_Commit_ApprovalFailed(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ledger.EXPECT().FeeAmount(ctx).Return(big.NewInt(5), nil)
	d.ledger.EXPECT().TokenBalance(ctx).Return(big.NewInt(10), nil)
	d.ledger.EXPECT().NativeBalance(ctx).Return(big.NewInt(5000), nil)
	d.ledger.EXPECT().Allowance(ctx).Return(big.NewInt(0), nil)
	d.ledger.EXPECT().Approve(ctx, big.NewInt(5)).Return(nil, errors.New("reverted"))

	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	assert.Nil(t, result)
	assertAppError(t, err, "ESC_004")
}

func TestProtocolService_Commit_DepositRejected(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	secret := testSecret(0xcc)

	d.expectFundedLedger(ctx)
	d.vault.EXPECT().Generate(ctx).Return(secret, nil)
	d.ledger.EXPECT().Deposit(ctx, secret.Commitment(), big.NewInt(1000)).Return(nil, errors.New("reverted"))

	// Persist is never called: a rejected deposit must not touch the store.
	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	assert.Nil(t, result)
	assertAppError(t, err, "ESC_005")
}

func TestProtocolService_Commit_PersistFailureStillReturnsSecret(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	secret := testSecret(0xdd)
	depositReceipt := receiptFor("deposit")

	d.expectFundedLedger(ctx)
	d.vault.EXPECT().Generate(ctx).Return(secret, nil)
	d.ledger.EXPECT().Deposit(ctx, secret.Commitment(), big.NewInt(1000)).Return(depositReceipt, nil)
	d.vault.EXPECT().Persist(ctx, gomock.Any()).Return(apperror.ErrStoreIO(errors.New("disk full")))

	// The deposit confirmed, so the result must come back with the secret
	// even though the operation as a whole failed.
	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	assertAppError(t, err, "ESC_010")
	require.NotNil(t, result)
	assert.Equal(t, secret.Hex(), result.SecretHex)
	assert.Equal(t, depositReceipt.TxHash, result.DepositTx)
}

func TestProtocolService_Commit_LedgerDown(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ledger.EXPECT().FeeAmount(ctx).Return(nil, errors.New("connection refused"))

	result, err := d.svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	assert.Nil(t, result)
	assertAppError(t, err, "LGR_001")
}

func TestProtocolService_Commit_RecordsAuditEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vault := mocks.NewMockVaultService(ctrl)
	ledger := mocks.NewMockLedgerClient(ctrl)
	audit := mocks.NewMockAuditService(ctrl)
	svc := NewProtocolService(vault, ledger, audit, domain.DefaultDenominations(), newTestLogger())

	ctx := context.Background()
	secret := testSecret(0xee)

	ledger.EXPECT().FeeAmount(ctx).Return(big.NewInt(5), nil)
	ledger.EXPECT().TokenBalance(ctx).Return(big.NewInt(10), nil)
	ledger.EXPECT().NativeBalance(ctx).Return(big.NewInt(5000), nil)
	ledger.EXPECT().Allowance(ctx).Return(big.NewInt(5), nil)
	vault.EXPECT().Generate(ctx).Return(secret, nil)
	ledger.EXPECT().Deposit(ctx, secret.Commitment(), big.NewInt(1000)).Return(receiptFor("deposit"), nil)
	vault.EXPECT().Persist(ctx, gomock.Any()).Return(nil)

	audit.EXPECT().Record(ctx, gomock.Any()).Do(
		func(_ context.Context, event *domain.AuditEvent) {
			assert.Equal(t, domain.AuditActionDeposit, event.Action)
			assert.Equal(t, "1000", event.Amount)
			assert.Equal(t, "SUCCESS", event.Outcome)
		},
	)

	_, err := svc.Commit(ctx, ports.CommitRequest{Amount: big.NewInt(1000)})
	require.NoError(t, err)
}

// ==================== Reveal Tests ====================

func TestProtocolService_Reveal_Success(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	record := testRecord(t, 0x11, 1000)
	recipient := common.HexToAddress("0x000000000000000000000000000000000000beef")
	withdrawReceipt := receiptFor("withdraw")

	d.vault.EXPECT().Lookup(ctx, record.Commitment).Return(record, nil)
	d.ledger.EXPECT().Withdraw(ctx, record.Secret, recipient).Return(withdrawReceipt, nil)
	d.vault.EXPECT().MarkSpent(ctx, record.Commitment, withdrawReceipt.TxHash).Return(nil)

	result, err := d.svc.Reveal(ctx, ports.RevealRequest{Commitment: record.Commitment, Recipient: recipient})
	require.NoError(t, err)
	assert.Equal(t, record.Commitment, result.Commitment)
	assert.Equal(t, int64(1000), result.Amount.Int64())
	assert.Equal(t, recipient, result.Recipient)
	assert.Equal(t, withdrawReceipt.TxHash, result.WithdrawTx)
}

func TestProtocolService_Reveal_UnknownCommitment(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	commitment := domain.Keccak256([]byte("never seen"))

	d.vault.EXPECT().Lookup(ctx, commitment).Return(nil, apperror.ErrUnknownCommitment(commitment.Hex()))

	// Withdraw is never invoked for an unknown commitment.
	result, err := d.svc.Reveal(ctx, ports.RevealRequest{Commitment: commitment})
	assert.Nil(t, result)
	assertAppError(t, err, "VLT_001")
}

func TestProtocolService_Reveal_AlreadySpent(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	record := testRecord(t, 0x12, 1000)
	record.Spent = true

	d.vault.EXPECT().Lookup(ctx, record.Commitment).Return(record, nil)

	result, err := d.svc.Reveal(ctx, ports.RevealRequest{Commitment: record.Commitment})
	assert.Nil(t, result)
	assertAppError(t, err, "ESC_007")
}

func TestProtocolService_Reveal_WithdrawalRejected(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	record := testRecord(t, 0x13, 1000)
	recipient := common.HexToAddress("0x000000000000000000000000000000000000beef")

	d.vault.EXPECT().Lookup(ctx, record.Commitment).Return(record, nil)
	d.ledger.EXPECT().Withdraw(ctx, record.Secret, recipient).Return(nil, errors.New("reverted"))

	result, err := d.svc.Reveal(ctx, ports.RevealRequest{Commitment: record.Commitment, Recipient: recipient})
	assert.Nil(t, result)
	assertAppError(t, err, "ESC_006")
}

func TestProtocolService_Reveal_MarkSpentFailureStillSucceeds(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	record := testRecord(t, 0x14, 1000)
	recipient := common.HexToAddress("0x000000000000000000000000000000000000beef")
	withdrawReceipt := receiptFor("withdraw")

	d.vault.EXPECT().Lookup(ctx, record.Commitment).Return(record, nil)
	d.ledger.EXPECT().Withdraw(ctx, record.Secret, recipient).Return(withdrawReceipt, nil)
	d.vault.EXPECT().MarkSpent(ctx, record.Commitment, withdrawReceipt.TxHash).
		Return(apperror.ErrStoreIO(errors.New("write failed")))

	// The withdrawal confirmed; a failed spent-flag write is reported in
	// logs but does not fail the operation.
	result, err := d.svc.Reveal(ctx, ports.RevealRequest{Commitment: record.Commitment, Recipient: recipient})
	require.NoError(t, err)
	assert.Equal(t, withdrawReceipt.TxHash, result.WithdrawTx)
}

// ==================== Balances Tests ====================

func TestProtocolService_Balances_Success(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	account := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	d.ledger.EXPECT().NativeBalance(ctx).Return(big.NewInt(5000), nil)
	d.ledger.EXPECT().TokenBalance(ctx).Return(big.NewInt(10), nil)
	d.ledger.EXPECT().Allowance(ctx).Return(big.NewInt(5), nil)
	d.ledger.EXPECT().FeeAmount(ctx).Return(big.NewInt(5), nil)
	d.ledger.EXPECT().Account().Return(account)

	result, err := d.svc.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, account, result.Account)
	assert.Equal(t, int64(5000), result.Native.Int64())
	assert.Equal(t, int64(10), result.Token.Int64())
	assert.Equal(t, int64(5), result.Allowance.Int64())
	assert.Equal(t, int64(5), result.FeeAmount.Int64())
}

func TestProtocolService_Balances_LedgerDown(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ledger.EXPECT().NativeBalance(ctx).Return(nil, errors.New("connection refused"))

	result, err := d.svc.Balances(ctx)
	assert.Nil(t, result)
	assertAppError(t, err, "LGR_001")
}

// ==================== Helper ====================

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
