package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/race-betting-ledger/internal/domain/account"
	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/domain/race"
)

// PlaceBetCommand carries a validated placement request
type PlaceBetCommand struct {
	EventID        string
	DriverID       int
	Amount         money.Money
	IdempotencyKey string
	CorrelationID  string
}

// BetService defines wager placement and listing
type BetService interface {
	// PlaceBet debits the stake and records a pending bet, returning its ID.
	// Business rejections are bet.PlacementError values.
	PlaceBet(ctx context.Context, userID int64, cmd PlaceBetCommand) (int64, error)

	// GetBets returns the user's bets, most recent first
	GetBets(ctx context.Context, userID int64) ([]*bet.Bet, error)
}

// SettlementService resolves the pending bets of a finished event and credits the winners
type SettlementService interface {
	Settle(ctx context.Context, eventID string, winningDriverID int) error
	SettleInTx(ctx context.Context, tx pgx.Tx, eventID string, winningDriverID int) error
}

// EventService exposes race data and finishes events
type EventService interface {
	GetEvents(ctx context.Context, query race.EventsQuery) ([]race.Event, error)
	GetDriversMarket(ctx context.Context, sessionID string) ([]race.DriverMarket, error)
	GetDriverMarket(ctx context.Context, sessionID string, driverID int) ([]race.DriverMarket, error)

	// FinishEvent records the outcome and settles the event in one transaction.
	// Rejections are race.SettlementError values.
	FinishEvent(ctx context.Context, eventID string, winningDriverID int) error
}

// MarketProvider is the part of EventService placement depends on
type MarketProvider interface {
	GetDriverMarket(ctx context.Context, sessionID string, driverID int) ([]race.DriverMarket, error)
}

// LedgerService reads the money-movement journal
type LedgerService interface {
	// GetLedger returns one page of the user's entries, newest first, and the total count
	GetLedger(ctx context.Context, userID int64, page, perPage int) ([]*ledger.Entry, int64, error)
}

// IdempotencyStore remembers placements by (user, Idempotency-Key)
type IdempotencyStore interface {
	// Reserve claims the key. When already claimed it returns the recorded bet ID,
	// or zero while the first placement is still running.
	Reserve(ctx context.Context, userID int64, key string) (betID int64, reserved bool, err error)
	Complete(ctx context.Context, userID int64, key string, betID int64) error
	Release(ctx context.Context, userID int64, key string) error
}

// AccountManager moves money on locked accounts inside the caller's transaction
type AccountManager interface {
	// DebitStake returns bet.ErrAccountNotFound or bet.ErrInsufficientFunds on rejection
	DebitStake(ctx context.Context, tx pgx.Tx, userID int64, stake money.Money) (*account.Account, error)

	// CreditPayouts credits every user in credits and returns the updated accounts in ascending user order
	CreditPayouts(ctx context.Context, tx pgx.Tx, credits map[int64]money.Money) ([]*account.Account, error)
}

// LedgerJournal appends money movements to the outbox inside the caller's transaction
type LedgerJournal interface {
	RecordStakeDebit(ctx context.Context, tx pgx.Tx, placed *bet.Bet, balanceAfter money.Money, correlationID string) error
	RecordPayoutCredits(ctx context.Context, tx pgx.Tx, eventID string, credits map[int64]money.Money, accounts []*account.Account, correlationID string) error
}
