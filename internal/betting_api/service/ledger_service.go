package service

import (
	"context"
	"log/slog"

	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/logger"
)

// JournalService implements LedgerService on the recorded ledger entries
type JournalService struct {
	ledgerRepo ledger.Repository
	logger     *slog.Logger
}

func NewLedgerService(logger *slog.Logger, ledgerRepo ledger.Repository) *JournalService {
	return &JournalService{ledgerRepo: ledgerRepo, logger: logger}
}

// GetLedger returns entries, total count of all entries, and any error
func (s *JournalService) GetLedger(ctx context.Context, userID int64, page, perPage int) ([]*ledger.Entry, int64, error) {
	offset := (page - 1) * perPage

	entries, err := s.ledgerRepo.GetByUserID(ctx, userID, perPage, offset)
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to read ledger entries", "user_id", userID, "error", err)
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountByUserID(ctx, userID)
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to count ledger entries", "user_id", userID, "error", err)
		return nil, 0, err
	}

	return entries, total, nil
}
