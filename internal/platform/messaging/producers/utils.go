package producers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"github.com/race-betting-ledger/internal/config"
)

const (
	partitionReadAttempts = 5
	partitionReadInterval = 2 * time.Second
)

// topicConn is the subset of *kafka.Conn needed to inspect and create topics
type topicConn interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

func ensureTopic(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig, topic string) error {
	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(partitionReadInterval), partitionReadAttempts-1)
	if err := createKafkaTopicIfNotExists(conn, topic, cfg.NumPartitions, cfg.ReplicationFactor, backoff.WithContext(policy, ctx), logger); err != nil {
		return fmt.Errorf("failed to ensure topic %s exists: %w", topic, err)
	}
	return nil
}

// createKafkaTopicIfNotExists creates the topic when its partitions cannot be read
func createKafkaTopicIfNotExists(conn topicConn, topicName string, numPartitions, replicationFactor int, policy backoff.BackOff, log *slog.Logger) error {
	log.Info("Checking if Kafka topic exists", "topic", topicName)

	partitions, err := backoff.RetryNotifyWithData(func() ([]kafka.Partition, error) {
		return conn.ReadPartitions(topicName)
	}, policy, func(err error, wait time.Duration) {
		log.Warn("Failed to read partitions, retrying", "topic", topicName, "wait", wait, "error", err)
	})

	if err == nil && len(partitions) > 0 {
		log.Info("Kafka topic already exists", "topic", topicName)
		return nil
	}

	log.Info("Kafka topic not found, creating it", "topic", topicName, "last_error_read", err)
	topicConfig := kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}
	if topicConfig.NumPartitions <= 0 {
		topicConfig.NumPartitions = 1
	}
	if topicConfig.ReplicationFactor <= 0 {
		topicConfig.ReplicationFactor = 1
	}

	if err := conn.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topicName, err)
	}
	log.Info("Successfully created Kafka topic", "topic", topicName, "partitions", topicConfig.NumPartitions)
	return nil
}
