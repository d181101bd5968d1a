package service

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/race-betting-ledger/internal/domain/race"
)

// InMemoryEventPublisher delivers EventFinished synchronously to a single handler
type InMemoryEventPublisher struct {
	handler race.EventFinishedHandler
	logger  *slog.Logger
}

func NewInMemoryEventPublisher(logger *slog.Logger, handler race.EventFinishedHandler) *InMemoryEventPublisher {
	return &InMemoryEventPublisher{handler: handler, logger: logger}
}

// PublishEventFinished returns the handler's error so the caller's transaction can roll back
func (p *InMemoryEventPublisher) PublishEventFinished(ctx context.Context, tx pgx.Tx, event race.EventFinished) error {
	if p.handler == nil {
		p.logger.Warn("No handler registered for finished events", "event_id", event.EventID)
		return nil
	}
	return p.handler.HandleEventFinished(ctx, tx, event)
}
