package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingMarker holds a key while the first request carrying it is still being processed
const pendingMarker = "PENDING"

// IdempotencyStore remembers which bet a (user, Idempotency-Key) pair produced
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewIdempotencyStore(logger *slog.Logger, client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl, logger: logger}
}

func key(userID int64, idempotencyKey string) string {
	return fmt.Sprintf("idempotency:bet:%d:%s", userID, idempotencyKey)
}

// Reserve claims the key for a new placement. When the key is already taken it reports
// the bet ID recorded for it, or zero while the first placement is still in flight.
func (s *IdempotencyStore) Reserve(ctx context.Context, userID int64, idempotencyKey string) (int64, bool, error) {
	k := key(userID, idempotencyKey)

	for attempt := 0; attempt < 2; attempt++ {
		reserved, err := s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
		if err != nil {
			s.logger.Error("Failed to reserve idempotency key", "user_id", userID, "error", err)
			return 0, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		if reserved {
			return 0, true, nil
		}

		value, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			s.logger.Error("Failed to read idempotency key", "user_id", userID, "error", err)
			return 0, false, fmt.Errorf("failed to read idempotency key: %w", err)
		}

		betID, err := parseBetID(value)
		if err != nil {
			return 0, false, err
		}
		return betID, false, nil
	}

	return 0, false, nil
}

// Complete records the bet produced under the key
func (s *IdempotencyStore) Complete(ctx context.Context, userID int64, idempotencyKey string, betID int64) error {
	if err := s.client.Set(ctx, key(userID, idempotencyKey), strconv.FormatInt(betID, 10), s.ttl).Err(); err != nil {
		s.logger.Error("Failed to complete idempotency key", "user_id", userID, "bet_id", betID, "error", err)
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release frees the key after a failed placement so the client may retry
func (s *IdempotencyStore) Release(ctx context.Context, userID int64, idempotencyKey string) error {
	if err := s.client.Del(ctx, key(userID, idempotencyKey)).Err(); err != nil {
		s.logger.Error("Failed to release idempotency key", "user_id", userID, "error", err)
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func parseBetID(value string) (int64, error) {
	if value == pendingMarker {
		return 0, nil
	}
	betID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt idempotency record %q: %w", value, err)
	}
	return betID, nil
}
