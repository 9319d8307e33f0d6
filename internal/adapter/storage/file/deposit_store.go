// Package file persists deposit records as a single JSON document. The
// document is read fully on each access and rewritten fully on each
// mutation. Single-process, single-writer; concurrent use of the same
// document by multiple processes is not supported.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// DepositStore implements ports.DepositStore on a JSON document keyed by
// hex-encoded commitment.
type DepositStore struct {
	path string
	log  zerolog.Logger
}

// entry is the on-disk layout of one record. Documents written before spent
// tracking existed decode with the zero values.
type entry struct {
	SecretHex string `json:"secretHex"`
	Amount    string `json:"amount"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds
	Spent     bool   `json:"spent,omitempty"`
	SpentTx   string `json:"spentTx,omitempty"`
	SpentAt   int64  `json:"spentAt,omitempty"`
}

// NewDepositStore creates a file-backed store. The document itself is created
// lazily on the first Put.
func NewDepositStore(path string, log zerolog.Logger) (*DepositStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &DepositStore{path: path, log: log}, nil
}

// Put writes or overwrites one record and rewrites the whole document.
func (s *DepositStore) Put(ctx context.Context, record *domain.DepositRecord) error {
	doc, err := s.load()
	if err != nil {
		if err != ports.ErrStoreMissing {
			return err
		}
		doc = make(map[string]entry)
	}

	doc[record.Commitment.Hex()] = encodeRecord(record)
	return s.save(doc)
}

// Get returns the record for commitment, or (nil, nil) if the document exists
// but holds no such key.
func (s *DepositStore) Get(ctx context.Context, commitment common.Hash) (*domain.DepositRecord, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	e, ok := doc[commitment.Hex()]
	if !ok {
		return nil, nil
	}
	return decodeEntry(commitment.Hex(), e)
}

// List returns every record in the document.
func (s *DepositStore) List(ctx context.Context) ([]*domain.DepositRecord, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	records := make([]*domain.DepositRecord, 0, len(doc))
	for key, e := range doc {
		record, err := decodeEntry(key, e)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// MarkSpent flips the spent flag on an existing record and rewrites the
// document.
func (s *DepositStore) MarkSpent(ctx context.Context, commitment common.Hash, spentTx common.Hash, spentAt time.Time) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	key := commitment.Hex()
	e, ok := doc[key]
	if !ok {
		return fmt.Errorf("record not found: %s", key)
	}

	e.Spent = true
	e.SpentTx = spentTx.Hex()
	e.SpentAt = spentAt.UnixMilli()
	doc[key] = e

	return s.save(doc)
}

// load reads the whole document into memory.
func (s *DepositStore) load() (map[string]entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrStoreMissing
		}
		return nil, fmt.Errorf("read store document: %w", err)
	}

	doc := make(map[string]entry)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode store document: %w", err)
	}
	return doc, nil
}

// save rewrites the whole document through a temp file so a crash mid-write
// never leaves a truncated store behind.
func (s *DepositStore) save(doc map[string]entry) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write store document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store document: %w", err)
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

func decodeEntry(key string, e entry) (*domain.DepositRecord, error) {
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
