package bet

import (
	"github.com/race-betting-ledger/internal/domain/money"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusWon, StatusLost:
		return true
	}
	return false
}

// Bet is a single wager. ID stays zero until the bet is first persisted.
type Bet struct {
	ID       int64       `json:"id"`
	EventID  string      `json:"event_id"`
	DriverID int         `json:"driver_id"`
	UserID   int64       `json:"user_id"`
	Amount   money.Money `json:"amount"`
	Status   Status      `json:"status"`
	Odds     int         `json:"odds"`
}

// NewPendingBet creates an unsaved wager with locked-in odds.
func NewPendingBet(userID int64, eventID string, driverID int, amount money.Money, odds int) *Bet {
	return &Bet{
		EventID:  eventID,
		DriverID: driverID,
		UserID:   userID,
		Amount:   amount,
		Status:   StatusPending,
		Odds:     odds,
	}
}

// ResolveByDriverID returns the bet settled against the winning driver.
// A bet that is no longer pending is returned unchanged.
func (b Bet) ResolveByDriverID(winningDriverID int) Bet {
	if b.Status != StatusPending {
		return b
	}
	if b.DriverID == winningDriverID {
		b.Status = StatusWon
	} else {
		b.Status = StatusLost
	}
	return b
}

func (b Bet) IsWon() bool {
	return b.Status == StatusWon
}

// Payout is the stake multiplied by the locked-in odds.
func (b Bet) Payout() (money.Money, error) {
	return b.Amount.Multiply(b.Odds)
}
