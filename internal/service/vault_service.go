package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"time"

	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"
	"hashlock-escrow/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// VaultServiceImpl implements ports.VaultService.
type VaultServiceImpl struct {
	store ports.DepositStore
	log   zerolog.Logger
}

// NewVaultService creates a new VaultServiceImpl.
func NewVaultService(store ports.DepositStore, log zerolog.Logger) *VaultServiceImpl {
	return &VaultServiceImpl{store: store, log: log}
}

// Generate draws a fresh secret from crypto/rand. The secret value itself is
// never logged anywhere in this service.
func (s *VaultServiceImpl) Generate(ctx context.Context) (domain.Secret, error) {
	var secret domain.Secret
	if _, err := rand.Read(secret[:]); err != nil {
		return domain.Secret{}, apperror.ErrEntropyFailure(err)
	}
	if secret.IsZero() {
		return domain.Secret{}, apperror.ErrEntropyFailure(errors.New("csprng returned all zero bytes"))
	}
	return secret, nil
}

// Persist writes a record through to the store. Failures here are loud: the
// caller has already spent funds on-chain by the time Persist runs.
func (s *VaultServiceImpl) Persist(ctx context.Context, record *domain.DepositRecord) error {
	if !record.Verify() {
		return apperror.ErrCorruptRecord(record.Commitment.Hex())
	}

	if err := s.store.Put(ctx, record); err != nil {
		return apperror.ErrStoreIO(fmt.Errorf("persist record: %w", err))
	}

	s.log.Info().
		Str("commitment", record.Commitment.Hex()).
		Str("amount", record.Amount.String()).
		Msg("deposit record persisted")

	return nil
}

// Lookup fetches one record and verifies it before handing it back. A record
// whose secret no longer hashes to its key is reported corrupt, never
// returned.
func (s *VaultServiceImpl) Lookup(ctx context.Context, commitment common.Hash) (*domain.DepositRecord, error) {
	record, err := s.store.Get(ctx, commitment)
	if err != nil {
		if errors.Is(err, ports.ErrStoreMissing) {
			return nil, apperror.ErrStoreNotFound()
		}
		return nil, apperror.ErrStoreIO(fmt.Errorf("lookup record: %w", err))
	}
	if record == nil {
		return nil, apperror.ErrUnknownCommitment(commitment.Hex())
	}
	if !record.Verify() {
		s.log.Error().
			Str("commitment", commitment.Hex()).
			Msg("stored secret does not hash to its commitment key")
		return nil, apperror.ErrCorruptRecord(commitment.Hex())
	}
	return record, nil
}

// List returns secret-free summaries in deposit order. Store backends differ
// in iteration order, so the summaries are sorted here: CreatedAt ascending,
// commitment hex as the tiebreak.
func (s *VaultServiceImpl) List(ctx context.Context) ([]domain.DepositSummary, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrStoreMissing) {
			return nil, apperror.ErrStoreNotFound()
		}
		return nil, apperror.ErrStoreIO(fmt.Errorf("list records: %w", err))
	}
	if len(records) == 0 {
		return nil, apperror.ErrEmptyStore()
	}

	summaries := make([]domain.DepositSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, r.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
		}
		return summaries[i].Commitment.Hex() < summaries[j].Commitment.Hex()
	})
	return summaries, nil
}

// Validate re-hashes every stored secret against its commitment key and
// reports the corrupt ones. An empty store validates clean.
func (s *VaultServiceImpl) Validate(ctx context.Context) (*ports.VaultReport, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrStoreMissing) {
			return nil, apperror.ErrStoreNotFound()
		}
		return nil, apperror.ErrStoreIO(fmt.Errorf("validate store: %w", err))
	}

	report := &ports.VaultReport{Total: len(records)}
	for _, r := range records {
		if r.Verify() {
			report.Intact++
			continue
		}
		report.Corrupt = append(report.Corrupt, r.Commitment)
	}

	if len(report.Corrupt) > 0 {
		s.log.Error().
			Int("corrupt", len(report.Corrupt)).
			Int("total", report.Total).
			Msg("store integrity check found corrupt records")
	} else {
		s.log.Info().Int("total", report.Total).Msg("store integrity check passed")
	}

	return report, nil
}

// MarkSpent flags a record as revealed. The record stays in the store.
func (s *VaultServiceImpl) MarkSpent(ctx context.Context, commitment common.Hash, spentTx common.Hash) error {
	if err := s.store.MarkSpent(ctx, commitment, spentTx, time.Now().UTC()); err != nil {
		if errors.Is(err, ports.ErrStoreMissing) {
			return apperror.ErrStoreNotFound()
		}
		return apperror.ErrStoreIO(fmt.Errorf("mark spent: %w", err))
	}

	s.log.Info().
		Str("commitment", commitment.Hex()).
		Str("spent_tx", spentTx.Hex()).
		Msg("deposit record marked spent")

	return nil
}
