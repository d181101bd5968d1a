package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/platform/metrics"
)

type RecordingServiceImpl struct {
	ledgerRepo        ledger.Repository
	validator         EntryValidator
	rejectionRecorder RejectionRecorder
	metrics           *metrics.Metrics
	logger            *slog.Logger
}

func NewRecordingService(
	ledgerRepo ledger.Repository,
	validator EntryValidator,
	rejectionRecorder RejectionRecorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) RecordingService {
	return &RecordingServiceImpl{
		ledgerRepo:        ledgerRepo,
		validator:         validator,
		rejectionRecorder: rejectionRecorder,
		metrics:           m,
		logger:            logger,
	}
}

func (s *RecordingServiceImpl) RecordEntry(ctx context.Context, entry *ledger.Entry) error {
	logger := s.logger
	if entry.CorrelationID != "" {
		logger = s.logger.With("correlation_id", entry.CorrelationID)
	}

	if err := s.validator.Validate(ctx, entry); err != nil {
		var invalid InvalidEntryError
		if !errors.As(err, &invalid) {
			return fmt.Errorf("failed to validate ledger entry %s: %w", entry.EntryID, err)
		}

		logger.Warn("Rejecting ledger entry", "entry_id", entry.EntryID.String(), "reason", invalid.Reason, "detail", invalid.Detail)
		if recordErr := s.rejectionRecorder.RecordRejection(ctx, entry, invalid.Reason); recordErr != nil {
			logger.Error("Failed to record ledger entry rejection", "entry_id", entry.EntryID.String(), "error", recordErr)
			return fmt.Errorf("failed to record rejection of entry %s: %w", entry.EntryID, recordErr)
		}
		s.metrics.LedgerRecorded("rejected")
		return nil
	}

	skip, err := s.validator.CheckIdempotency(ctx, entry)
	if err != nil {
		return err
	}
	if skip {
		s.metrics.LedgerRecorded("duplicate")
		return nil
	}

	now := time.Now().UTC()
	entry.RecordedAt = &now

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, ledger.ErrDuplicateEntry{EntryID: entry.EntryID}) {
			logger.Info("Ledger entry recorded concurrently, skipping", "entry_id", entry.EntryID.String())
			s.metrics.LedgerRecorded("duplicate")
			return nil
		}
		s.metrics.LedgerRecorded("failed")
		return fmt.Errorf("failed to record ledger entry %s: %w", entry.EntryID, err)
	}

	s.metrics.LedgerRecorded("recorded")
	logger.Info("Recorded ledger entry",
		"entry_id", entry.EntryID.String(),
		"user_id", entry.UserID,
		"type", entry.Type,
		"amount", entry.Amount,
	)
	return nil
}

