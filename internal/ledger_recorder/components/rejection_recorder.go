package components

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/domain/shared"
	"github.com/race-betting-ledger/internal/ledger_recorder/service"
	"github.com/race-betting-ledger/internal/platform/messaging/producers"
)

// DLQRejectionRecorder parks rejected entries on the dead-letter topic with their reason
type DLQRejectionRecorder struct {
	dlq    producers.DeadLetterPublisher
	logger *slog.Logger
}

func NewRejectionRecorder(dlq producers.DeadLetterPublisher, logger *slog.Logger) service.RejectionRecorder {
	return &DLQRejectionRecorder{
		dlq:    dlq,
		logger: logger,
	}
}

func (r *DLQRejectionRecorder) RecordRejection(ctx context.Context, entry *ledger.Entry, reason shared.RejectionReason) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode rejected entry %s: %w", entry.EntryID, err)
	}

	key := strconv.FormatInt(entry.UserID, 10)
	if err := r.dlq.PublishToDLQ(ctx, key, payload, string(reason)); err != nil {
		if errors.Is(err, producers.ErrDLQDisabled) {
			r.logger.Warn("DLQ disabled, dropping rejected ledger entry",
				"entry_id", entry.EntryID.String(),
				"reason", reason,
				"payload", string(payload),
			)
			return nil
		}
		return fmt.Errorf("failed to publish rejected entry %s to DLQ: %w", entry.EntryID, err)
	}

	r.logger.Info("Parked rejected ledger entry on DLQ",
		"entry_id", entry.EntryID.String(),
		"user_id", entry.UserID,
		"reason", reason,
	)
	return nil
}
