package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/race-betting-ledger/internal/domain/outbox"
	"github.com/race-betting-ledger/internal/domain/shared"
	"github.com/race-betting-ledger/internal/platform/messaging/producers"
	"github.com/race-betting-ledger/internal/platform/metrics"
)

// LedgerPublisher relays one outbox message to the journal topic
type LedgerPublisher interface {
	PublishToLedger(ctx context.Context, message *outbox.Message) error
}

// KafkaLedgerPublisher publishes outbox payloads keyed by user ID so that one
// user's entries stay ordered on a single partition
type KafkaLedgerPublisher struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewLedgerPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) LedgerPublisher {
	return &KafkaLedgerPublisher{
		outboxRepo: outboxRepo,
		producer:   producer,
		metrics:    m,
		logger:     logger,
	}
}

// PublishToLedger publishes the message and marks it PROCESSED.
// A payload that cannot be decoded is marked FAILED_TO_PUBLISH at once.
func (p *KafkaLedgerPublisher) PublishToLedger(ctx context.Context, message *outbox.Message) error {
	entry, err := message.LedgerEntry()
	if err != nil {
		p.logger.Error("Failed to decode ledger entry from outbox payload",
			"outbox_id", message.ID, "entry_id", message.EntryID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to mark outbox message FAILED_TO_PUBLISH after decode error", "outbox_id", message.ID, "update_error", updateErr)
		}
		p.metrics.OutboxRelayed("malformed")
		return fmt.Errorf("decode payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	var headers []kafka.Header
	if entry.CorrelationID != "" {
		logger = p.logger.With("correlation_id", entry.CorrelationID)
		headers = append(headers, kafka.Header{Key: producers.CorrelationIDHeader, Value: []byte(entry.CorrelationID)})
	}

	key := strconv.FormatInt(message.UserID, 10)
	if err := p.producer.Publish(ctx, key, message.Payload, headers...); err != nil {
		p.metrics.OutboxRelayed("failed")
		return fmt.Errorf("failed to publish outbox %d: %w", message.ID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		// the entry is on the topic; a later relay publishes it again and the recorder skips the duplicate
		logger.Error("Failed to mark outbox message PROCESSED after publishing",
			"outbox_id", message.ID, "entry_id", message.EntryID, "error", err,
		)
		p.metrics.OutboxRelayed("failed")
		return fmt.Errorf("published outbox %d but failed to mark it PROCESSED: %w", message.ID, err)
	}

	p.metrics.OutboxRelayed("published")
	logger.Debug("Relayed outbox message", "outbox_id", message.ID, "entry_id", message.EntryID, "user_id", message.UserID)
	return nil
}
