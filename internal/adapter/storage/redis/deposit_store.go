package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"

	"github.com/ethereum/go-ethereum/common"
	goredis "github.com/redis/go-redis/v9"
)

const depositsKey = "escrow:deposits"

// DepositStore implements ports.DepositStore on a Redis hash. Fields are
// hex-encoded commitments; values carry the same JSON layout as the file
// backend. Records are never deleted, so an absent hash key means the store
// was never created.
type DepositStore struct {
	client *goredis.Client
	key    string
}

// NewDepositStore creates a Redis-backed deposit store.
func NewDepositStore(client *goredis.Client) *DepositStore {
	return &DepositStore{client: client, key: depositsKey}
}

// entry mirrors the file backend's per-record JSON layout.
type entry struct {
	SecretHex string `json:"secretHex"`
	Amount    string `json:"amount"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds
	Spent     bool   `json:"spent,omitempty"`
	SpentTx   string `json:"spentTx,omitempty"`
	SpentAt   int64  `json:"spentAt,omitempty"`
}

// Put writes or overwrites one record field.
func (s *DepositStore) Put(ctx context.Context, record *domain.DepositRecord) error {
	data, err := json.Marshal(encodeRecord(record))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, record.Commitment.Hex(), data).Err(); err != nil {
		return fmt.Errorf("redis deposit put: %w", err)
	}
	return nil
}

// Get returns the record for commitment, (nil, nil) when the store exists but
// the field does not, and ErrStoreMissing when the hash was never created.
func (s *DepositStore) Get(ctx context.Context, commitment common.Hash) (*domain.DepositRecord, error) {
	data, err := s.client.HGet(ctx, s.key, commitment.Hex()).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			n, existsErr := s.client.Exists(ctx, s.key).Result()
			if existsErr != nil {
				return nil, fmt.Errorf("redis deposit exists: %w", existsErr)
			}
			if n == 0 {
				return nil, ports.ErrStoreMissing
			}
			return nil, nil
		}
		return nil, fmt.Errorf("redis deposit get: %w", err)
	}
	return decodeEntry(commitment.Hex(), data)
}

// List returns every record in the hash.
func (s *DepositStore) List(ctx context.Context) ([]*domain.DepositRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis deposit list: %w", err)
	}
	if len(fields) == 0 {
		n, existsErr := s.client.Exists(ctx, s.key).Result()
		if existsErr != nil {
			return nil, fmt.Errorf("redis deposit exists: %w", existsErr)
		}
		if n == 0 {
			return nil, ports.ErrStoreMissing
		}
		return nil, nil
	}

	records := make([]*domain.DepositRecord, 0, len(fields))
	for key, raw := range fields {
		record, err := decodeEntry(key, []byte(raw))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// MarkSpent rewrites one record field with the spent flag set.
func (s *DepositStore) MarkSpent(ctx context.Context, commitment common.Hash, spentTx common.Hash, spentAt time.Time) error {
	field := commitment.Hex()
	data, err := s.client.HGet(ctx, s.key, field).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return fmt.Errorf("record not found: %s", field)
		}
		return fmt.Errorf("redis deposit get: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("record %s: decode: %w", field, err)
	}
	e.Spent = true
	e.SpentTx = spentTx.Hex()
	e.SpentAt = spentAt.UnixMilli()

	updated, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, field, updated).Err(); err != nil {
		return fmt.Errorf("redis deposit put: %w", err)
	}
	return nil
}

func encodeRecord(record *domain.DepositRecord) entry {
	e := entry{
		SecretHex: record.Secret.Hex(),
		Amount:    record.Amount.String(),
		CreatedAt: record.CreatedAt.UnixMilli(),
		Spent:     record.Spent,
	}
	if record.SpentTx != (common.Hash{}) {
		e.SpentTx = record.SpentTx.Hex()
	}
	if record.SpentAt != nil {
		e.SpentAt = record.SpentAt.UnixMilli()
	}
	return e
}

func decodeEntry(key string, data []byte) (*domain.DepositRecord, error) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("record %s: decode: %w", key, err)
	}

	secret, err := domain.ParseSecretHex(e.SecretHex)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", key, err)
	}
	amount, ok := new(big.Int).SetString(e.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("record %s: malformed amount %q", key, e.Amount)
	}

	record := &domain.DepositRecord{
		Commitment: common.HexToHash(key),
		Secret:     secret,
		Amount:     amount,
		CreatedAt:  time.UnixMilli(e.CreatedAt).UTC(),
		Spent:      e.Spent,
	}
	if e.SpentTx != "" {
		record.SpentTx = common.HexToHash(e.SpentTx)
	}
	if e.SpentAt != 0 {
		at := time.UnixMilli(e.SpentAt).UTC()
		record.SpentAt = &at
	}
	return record, nil
}
