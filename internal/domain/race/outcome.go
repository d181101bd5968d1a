package race

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// EventOutcome records the winner of an event. The first recorded outcome is final.
type EventOutcome struct {
	EventID         string    `json:"event_id"`
	WinningDriverID int       `json:"winning_driver_id"`
	FinishedAt      time.Time `json:"finished_at"`
}

// EventFinished is published once an outcome has been recorded.
type EventFinished struct {
	EventID         string
	WinningDriverID int
	FinishedAt      time.Time
}

// EventFinishedHandler reacts to a finished event inside the transaction that recorded it.
type EventFinishedHandler interface {
	HandleEventFinished(ctx context.Context, tx pgx.Tx, event EventFinished) error
}

type EventPublisher interface {
	PublishEventFinished(ctx context.Context, tx pgx.Tx, event EventFinished) error
}
