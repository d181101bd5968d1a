package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/race-betting-ledger/internal/domain/race"
	"github.com/race-betting-ledger/internal/platform/persistence"
)

// OutcomeRepository implements the race.OutcomeRepository interface for PostgreSQL
type OutcomeRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewOutcomeRepository(logger *slog.Logger, db *persistence.PostgresDB) race.OutcomeRepository {
	return &OutcomeRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *OutcomeRepository) WithTx(tx pgx.Tx) race.OutcomeRepository {
	return &OutcomeRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Save records the outcome unless the event already has one, in which case it returns nil.
// An existing outcome is never overwritten.
func (r *OutcomeRepository) Save(ctx context.Context, outcome race.EventOutcome) (*race.EventOutcome, error) {
	query := `
		INSERT INTO event_outcomes (event_id, winning_driver_id, finished_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING event_id
	`

	var eventID string
	err := r.querier.QueryRow(ctx, query, outcome.EventID, outcome.WinningDriverID, outcome.FinishedAt).Scan(&eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || persistence.IsUniqueViolation(err) {
			r.logger.Info("Event outcome already recorded", "event_id", outcome.EventID)
			return nil, nil
		}
		r.logger.Error("Failed to save event outcome", "event_id", outcome.EventID, "error", err)
		return nil, fmt.Errorf("failed to save event outcome: %w", err)
	}

	saved := outcome
	return &saved, nil
}
