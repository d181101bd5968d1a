package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/domain/shared"
)

// Entry is one money movement against a user's account.
// Amounts are fixed two-decimal strings so they survive JSON and BSON unchanged.
type Entry struct {
	EntryID       uuid.UUID        `json:"entry_id" bson:"entry_id"`
	UserID        int64            `json:"user_id" bson:"user_id"`
	BetID         int64            `json:"bet_id,omitempty" bson:"bet_id,omitempty"`
	EventID       string           `json:"event_id" bson:"event_id"`
	Type          shared.EntryType `json:"type" bson:"type"`
	Amount        string           `json:"amount" bson:"amount"`
	BalanceAfter  string           `json:"balance_after" bson:"balance_after"`
	CorrelationID string           `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at"`
	RecordedAt    *time.Time       `json:"recorded_at,omitempty" bson:"recorded_at,omitempty"`
}

// NewStakeDebit records the stake taken from a user when a bet is placed
func NewStakeDebit(userID, betID int64, eventID string, stake, balanceAfter money.Money, correlationID string) *Entry {
	return newEntry(shared.EntryTypeStakeDebit, userID, betID, eventID, stake, balanceAfter, correlationID)
}

// NewPayoutCredit records the winnings credited to a user for an event
func NewPayoutCredit(userID int64, eventID string, payout, balanceAfter money.Money, correlationID string) *Entry {
	return newEntry(shared.EntryTypePayoutCredit, userID, 0, eventID, payout, balanceAfter, correlationID)
}

func newEntry(t shared.EntryType, userID, betID int64, eventID string, amount, balanceAfter money.Money, correlationID string) *Entry {
	return &Entry{
		EntryID:       uuid.New(),
		UserID:        userID,
		BetID:         betID,
		EventID:       eventID,
		Type:          t,
		Amount:        amount.String(),
		BalanceAfter:  balanceAfter.String(),
		CorrelationID: correlationID,
		CreatedAt:     time.Now().UTC(),
	}
}
