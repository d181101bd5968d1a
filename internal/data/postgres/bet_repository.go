package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/platform/persistence"
)

// BetRepository implements the bet.Repository interface for PostgreSQL
type BetRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewBetRepository(logger *slog.Logger, db *persistence.PostgresDB) bet.Repository {
	return &BetRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *BetRepository) WithTx(tx pgx.Tx) bet.Repository {
	return &BetRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Save inserts a new bet and assigns its generated ID, or updates the status of an existing one.
// Amount, odds and driver are immutable once placed.
func (r *BetRepository) Save(ctx context.Context, b *bet.Bet) error {
	if b.ID == 0 {
		return r.insert(ctx, b)
	}

	query := `
		UPDATE bets
		SET status = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, b.Status, b.ID)
	if err != nil {
		r.logger.Error("Failed to update bet", "bet_id", b.ID, "status", string(b.Status), "error", err)
		return fmt.Errorf("failed to update bet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to update bet %d: no such bet", b.ID)
	}

	return nil
}

func (r *BetRepository) insert(ctx context.Context, b *bet.Bet) error {
	query := `
		INSERT INTO bets (event_id, driver_id, user_id, amount, status, odds)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		b.EventID,
		b.DriverID,
		b.UserID,
		b.Amount.String(),
		b.Status,
		b.Odds,
	).Scan(&b.ID)
	if err != nil {
		r.logger.Error("Failed to create bet",
			"user_id", b.UserID,
			"event_id", b.EventID,
			"error", err,
		)
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

func (r *BetRepository) SaveAll(ctx context.Context, bets []*bet.Bet) error {
	for _, b := range bets {
		if err := r.Save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// FindByUserID returns the user's bets, most recent first
func (r *BetRepository) FindByUserID(ctx context.Context, userID int64) ([]*bet.Bet, error) {
	query := `
		SELECT id, event_id, driver_id, user_id, amount::text, status, odds
		FROM bets
		WHERE user_id = $1
		ORDER BY id DESC
	`

	return r.queryBets(ctx, "user", query, userID)
}

// FindByEventAndStatus locks the matching rows until the transaction ends. A concurrent settlement
// of the same event blocks here and then no longer sees the bets as pending.
func (r *BetRepository) FindByEventAndStatus(ctx context.Context, eventID string, status bet.Status) ([]*bet.Bet, error) {
	query := `
		SELECT id, event_id, driver_id, user_id, amount::text, status, odds
		FROM bets
		WHERE event_id = $1 AND status = $2
		ORDER BY id
		FOR UPDATE
	`

	return r.queryBets(ctx, "event", query, eventID, status)
}

func (r *BetRepository) queryBets(ctx context.Context, scope, query string, args ...interface{}) ([]*bet.Bet, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to get bets", "scope", scope, "error", err)
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}
	defer rows.Close()

	bets := make([]*bet.Bet, 0)
	for rows.Next() {
		var (
			b      bet.Bet
			amount string
		)
		if err := rows.Scan(&b.ID, &b.EventID, &b.DriverID, &b.UserID, &amount, &b.Status, &b.Odds); err != nil {
			r.logger.Error("Failed to scan bet", "error", err)
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		if !b.Status.IsValid() {
			return nil, fmt.Errorf("bet %d has unknown status %q", b.ID, b.Status)
		}
		if b.Amount, err = money.Parse(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount of bet %d: %w", b.ID, err)
		}
		bets = append(bets, &b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over bets", "error", err)
		return nil, fmt.Errorf("error iterating over bets: %w", err)
	}

	return bets, nil
}
