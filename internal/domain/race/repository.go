package race

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ReadRepository reads race data from the upstream provider.
// Failures are reported as RetrievalError values.
type ReadRepository interface {
	GetEvents(ctx context.Context, query EventsQuery) ([]Event, error)
	GetDrivers(ctx context.Context, sessionKey string, driverNumber *int) ([]Driver, error)
}

// OutcomeRepository stores event outcomes
type OutcomeRepository interface {
	// Save records the outcome and returns it, or returns nil when the event already has one
	Save(ctx context.Context, outcome EventOutcome) (*EventOutcome, error)
	WithTx(tx pgx.Tx) OutcomeRepository
}
