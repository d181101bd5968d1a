package producers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/race-betting-ledger/internal/config"
)

// LedgerEntryProducer relays ledger entries to the ledger topic.
// Writes are synchronous so the outbox only marks a message processed once Kafka acknowledged it.
type LedgerEntryProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewLedgerEntryProducer creates the producer and ensures the ledger topic exists
func NewLedgerEntryProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*LedgerEntryProducer, error) {
	if cfg.LedgerTopic == "" {
		return nil, fmt.Errorf("kafka ledger topic is not configured")
	}

	if err := ensureTopic(ctx, logger, cfg, cfg.LedgerTopic); err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.LedgerTopic,
		Balancer:     &kafka.Hash{}, // entries of one user stay ordered on one partition
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &LedgerEntryProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.LedgerTopic,
	}, nil
}

func (p *LedgerEntryProducer) Publish(ctx context.Context, key string, payload []byte, headers ...kafka.Header) error {
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger entry",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish ledger entry to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published ledger entry",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *LedgerEntryProducer) Close() error {
	p.logger.Info("Closing ledger entry producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
