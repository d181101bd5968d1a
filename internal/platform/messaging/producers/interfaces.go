package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes an already encoded payload to the primary topic
type MessagePublisher interface {
	Publish(ctx context.Context, key string, payload []byte, headers ...kafka.Header) error
	Close() error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CorrelationIDHeader carries the originating request's correlation ID on every ledger message
const CorrelationIDHeader = "correlation-id"
