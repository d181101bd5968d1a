package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/ledger_recorder/service"
	"github.com/race-betting-ledger/internal/logger"
	"github.com/race-betting-ledger/internal/platform/messaging/consumers"
	"github.com/race-betting-ledger/internal/platform/messaging/producers"
)

// LedgerEntryHandler decodes journal messages and hands them to the recording service
type LedgerEntryHandler struct {
	recordingService service.RecordingService
	dlq              producers.DeadLetterPublisher
	logger           *slog.Logger
}

func NewLedgerEntryHandler(
	logger *slog.Logger,
	recordingService service.RecordingService,
	dlq producers.DeadLetterPublisher,
) *LedgerEntryHandler {
	return &LedgerEntryHandler{
		recordingService: recordingService,
		dlq:              dlq,
		logger:           logger,
	}
}

// HandleMessage is a consumers.MessageHandler. Returning nil commits the offset.
func (h *LedgerEntryHandler) HandleMessage(ctx context.Context, msg consumers.Message) error {
	if correlationID := msg.Headers[producers.CorrelationIDHeader]; correlationID != "" {
		ctx = logger.ContextWithCorrelationID(ctx, correlationID)
	}
	log := logger.FromContext(ctx, h.logger)

	var entry ledger.Entry
	if err := json.Unmarshal(msg.Value, &entry); err != nil {
		log.Error("Failed to unmarshal ledger entry from Kafka message", "message_key", string(msg.Key), "error", err)

		if h.dlq == nil {
			return fmt.Errorf("failed to unmarshal message value: %w", err)
		}

		reason := fmt.Sprintf("malformed ledger entry: %s", err.Error())
		if dlqErr := h.dlq.PublishToDLQ(ctx, string(msg.Key), msg.Value, reason); dlqErr != nil {
			if errors.Is(dlqErr, producers.ErrDLQDisabled) {
				log.Warn("DLQ disabled, dropping malformed message", "message_key", string(msg.Key))
				return nil
			}
			log.Error("Failed to publish malformed message to DLQ",
				"dlq_error", dlqErr,
				"original_error", err,
				"message_key", string(msg.Key),
			)
			return fmt.Errorf("failed to unmarshal message value: %w", err)
		}
		return nil
	}

	if err := h.recordingService.RecordEntry(ctx, &entry); err != nil {
		log.Error("Failed to record ledger entry", "entry_id", entry.EntryID.String(), "user_id", entry.UserID, "error", err)
		return fmt.Errorf("recording entry %s failed: %w", entry.EntryID, err)
	}

	return nil
}
