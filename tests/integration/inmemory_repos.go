package integration

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"
	"time"

	"hashlock-escrow/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// --- In-Memory Deposit Store ---

type inMemoryDepositStore struct {
	mu      sync.RWMutex
	records map[common.Hash]*domain.DepositRecord
	order   []common.Hash
}

func newInMemoryDepositStore() *inMemoryDepositStore {
	return &inMemoryDepositStore{records: make(map[common.Hash]*domain.DepositRecord)}
}

func (s *inMemoryDepositStore) Put(ctx context.Context, record *domain.DepositRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Commitment]; !ok {
		s.order = append(s.order, record.Commitment)
	}
	s.records[record.Commitment] = copyRecord(record)
	return nil
}

func (s *inMemoryDepositStore) Get(ctx context.Context, commitment common.Hash) (*domain.DepositRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[commitment]
	if !ok {
		return nil, nil
	}
	return copyRecord(r), nil
}

func (s *inMemoryDepositStore) List(ctx context.Context) ([]*domain.DepositRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.DepositRecord, 0, len(s.order))
	for _, c := range s.order {
		out = append(out, copyRecord(s.records[c]))
	}
	return out, nil
}

func (s *inMemoryDepositStore) MarkSpent(ctx context.Context, commitment common.Hash, spentTx common.Hash, spentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[commitment]
	if !ok {
		return fmt.Errorf("no record for commitment %s", commitment.Hex())
	}
	r.Spent = true
	r.SpentTx = spentTx
	at := spentAt
	r.SpentAt = &at
	return nil
}

func (s *inMemoryDepositStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// snapshot returns an aliasing-free copy of every record, in insertion order.
func (s *inMemoryDepositStore) snapshot() []*domain.DepositRecord {
	out, _ := s.List(context.Background())
	return out
}

func copyRecord(r *domain.DepositRecord) *domain.DepositRecord {
	cp := *r
	cp.Amount = new(big.Int).Set(r.Amount)
	if r.SpentAt != nil {
		at := *r.SpentAt
		cp.SpentAt = &at
	}
	return &cp
}

// --- In-Memory Audit Store ---

type inMemoryAuditStore struct {
	mu     sync.RWMutex
	events []*domain.AuditEvent
}

func newInMemoryAuditStore() *inMemoryAuditStore {
	return &inMemoryAuditStore{}
}

func (s *inMemoryAuditStore) Append(ctx context.Context, event *domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *inMemoryAuditStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// --- Fake Ledger ---

// fakeLedger is a scripted chain. Reads come from plain fields, writes are
// recorded so tests can assert exactly what was submitted, and the error
// fields force the corresponding call to fail.
type fakeLedger struct {
	mu        sync.Mutex
	fee       *big.Int
	token     *big.Int
	native    *big.Int
	allowance *big.Int

	account common.Address
	escrow  common.Address

	deposits    []fakeDeposit
	withdrawals []fakeWithdrawal
	approvals   []*big.Int

	depositErr  error
	withdrawErr error

	txCounter uint64
}

type fakeDeposit struct {
	commitment common.Hash
	amount     *big.Int
}

type fakeWithdrawal struct {
	secret    domain.Secret
	recipient common.Address
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		fee:       big.NewInt(5),
		token:     big.NewInt(1_000_000),
		native:    big.NewInt(10_000_000),
		allowance: big.NewInt(0),
		account:   common.HexToAddress("0x1111111111111111111111111111111111111111"),
		escrow:    common.HexToAddress("0x2222222222222222222222222222222222222222"),
	}
}

func (l *fakeLedger) FeeAmount(ctx context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.fee), nil
}

func (l *fakeLedger) TokenBalance(ctx context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.token), nil
}

func (l *fakeLedger) NativeBalance(ctx context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.native), nil
}

func (l *fakeLedger) Allowance(ctx context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.allowance), nil
}

func (l *fakeLedger) Approve(ctx context.Context, amount *big.Int) (*domain.TxReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.approvals = append(l.approvals, new(big.Int).Set(amount))
	l.allowance = new(big.Int).Set(amount)
	return l.nextReceipt(), nil
}

func (l *fakeLedger) Deposit(ctx context.Context, commitment common.Hash, amount *big.Int) (*domain.TxReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.depositErr != nil {
		return nil, l.depositErr
	}
	l.deposits = append(l.deposits, fakeDeposit{commitment: commitment, amount: new(big.Int).Set(amount)})
	l.native.Sub(l.native, amount)
	l.token.Sub(l.token, l.fee)
	l.allowance.Sub(l.allowance, l.fee)
	return l.nextReceipt(), nil
}

func (l *fakeLedger) Withdraw(ctx context.Context, secret domain.Secret, recipient common.Address) (*domain.TxReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.withdrawErr != nil {
		return nil, l.withdrawErr
	}
	l.withdrawals = append(l.withdrawals, fakeWithdrawal{secret: secret, recipient: recipient})
	return l.nextReceipt(), nil
}

func (l *fakeLedger) Account() common.Address {
	return l.account
}

func (l *fakeLedger) EscrowAddress() common.Address {
	return l.escrow
}

func (l *fakeLedger) nextReceipt() *domain.TxReceipt {
	l.txCounter++
	var h common.Hash
	binary.BigEndian.PutUint64(h[24:], l.txCounter)
	return &domain.TxReceipt{TxHash: h, BlockNumber: 100 + l.txCounter, GasUsed: 70_000}
}

func (l *fakeLedger) depositCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.deposits)
}

func (l *fakeLedger) withdrawalCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.withdrawals)
}

func (l *fakeLedger) lastDeposit() fakeDeposit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deposits[len(l.deposits)-1]
}

func (l *fakeLedger) lastWithdrawal() fakeWithdrawal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.withdrawals[len(l.withdrawals)-1]
}
