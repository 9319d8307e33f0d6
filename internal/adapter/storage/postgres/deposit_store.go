package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"hashlock-escrow/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
)

// DepositStore implements ports.DepositStore on PostgreSQL. Unlike the file
// backend there is no missing-store state: the table exists from EnsureSchema
// on, and an empty table simply lists zero records.
type DepositStore struct {
	pool Pool
}

// NewDepositStore creates a new DepositStore.
func NewDepositStore(pool Pool) *DepositStore {
	return &DepositStore{pool: pool}
}

// Put upserts a record keyed by commitment.
func (r *DepositStore) Put(ctx context.Context, record *domain.DepositRecord) error {
	query := `INSERT INTO deposits (commitment, secret_hex, amount, created_at, spent, spent_tx, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (commitment) DO UPDATE SET
			secret_hex = EXCLUDED.secret_hex,
			amount = EXCLUDED.amount,
			created_at = EXCLUDED.created_at,
			spent = EXCLUDED.spent,
			spent_tx = EXCLUDED.spent_tx,
			spent_at = EXCLUDED.spent_at`

	var spentTx *string
	if record.SpentTx != (common.Hash{}) {
		s := record.SpentTx.Hex()
		spentTx = &s
	}

	_, err := r.pool.Exec(ctx, query,
		record.Commitment.Hex(), record.Secret.Hex(), record.Amount.String(),
		record.CreatedAt, record.Spent, spentTx, record.SpentAt,
	)
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// Get fetches a record by commitment. Returns (nil, nil) when absent.
func (r *DepositStore) Get(ctx context.Context, commitment common.Hash) (*domain.DepositRecord, error) {
	query := `SELECT commitment, secret_hex, amount, created_at, spent, spent_tx, spent_at FROM deposits WHERE commitment = $1`

	return scanDeposit(r.pool.QueryRow(ctx, query, commitment.Hex()))
}

// List fetches every record, oldest first.
func (r *DepositStore) List(ctx context.Context) ([]*domain.DepositRecord, error) {
	query := `SELECT commitment, secret_hex, amount, created_at, spent, spent_tx, spent_at FROM deposits ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()

	var records []*domain.DepositRecord
	for rows.Next() {
		record, err := scanDepositRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deposit rows: %w", err)
	}
	return records, nil
}

// MarkSpent flips the spent flag on an existing record.
func (r *DepositStore) MarkSpent(ctx context.Context, commitment common.Hash, spentTx common.Hash, spentAt time.Time) error {
	query := `UPDATE deposits SET spent = TRUE, spent_tx = $1, spent_at = $2 WHERE commitment = $3`

	tag, err := r.pool.Exec(ctx, query, spentTx.Hex(), spentAt, commitment.Hex())
	if err != nil {
		return fmt.Errorf("mark deposit spent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record not found: %s", commitment.Hex())
	}
	return nil
}

// scanDeposit is a helper to scan a single row into a DepositRecord.
func scanDeposit(row pgx.Row) (*domain.DepositRecord, error) {
	record, err := scanDepositRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func scanDepositRow(row pgx.Row) (*domain.DepositRecord, error) {
	var (
		commitmentHex string
		secretHex     string
		amountStr     string
		spentTx       *string
	)
	record := &domain.DepositRecord{}

	err := row.Scan(
		&commitmentHex, &secretHex, &amountStr,
		&record.CreatedAt, &record.Spent, &spentTx, &record.SpentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan deposit: %w", err)
	}

	secret, err := domain.ParseSecretHex(secretHex)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", commitmentHex, err)
	}
	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return nil, fmt.Errorf("record %s: malformed amount %q", commitmentHex, amountStr)
	}

	record.Commitment = common.HexToHash(commitmentHex)
	record.Secret = secret
	record.Amount = amount
	if spentTx != nil {
		record.SpentTx = common.HexToHash(*spentTx)
	}
	return record, nil
}
