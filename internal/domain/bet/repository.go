package bet

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines bet persistence operations
type Repository interface {
	// Save inserts a bet with a zero ID, assigning the generated ID, and updates it otherwise
	Save(ctx context.Context, bet *Bet) error
	SaveAll(ctx context.Context, bets []*Bet) error

	// FindByUserID returns the user's bets, most recent first
	FindByUserID(ctx context.Context, userID int64) ([]*Bet, error)
	FindByEventAndStatus(ctx context.Context, eventID string, status Status) ([]*Bet, error)
	WithTx(tx pgx.Tx) Repository
}
