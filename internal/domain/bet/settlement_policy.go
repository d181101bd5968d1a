package bet

import (
	"fmt"

	"github.com/race-betting-ledger/internal/domain/money"
)

// SettlementPolicy decides wager outcomes. It never touches persisted state.
type SettlementPolicy struct{}

func NewSettlementPolicy() SettlementPolicy {
	return SettlementPolicy{}
}

// Resolve maps every pending bet to WON or LOST against the winning driver.
func (SettlementPolicy) Resolve(bets []*Bet, winningDriverID int) []*Bet {
	resolved := make([]*Bet, 0, len(bets))
	for _, b := range bets {
		r := b.ResolveByDriverID(winningDriverID)
		resolved = append(resolved, &r)
	}
	return resolved
}

// CreditsByUser sums the payouts of winning bets per user. Users without a win are absent.
func (SettlementPolicy) CreditsByUser(bets []*Bet) (map[int64]money.Money, error) {
	credits := make(map[int64]money.Money)
	for _, b := range bets {
		if !b.IsWon() {
			continue
		}
		payout, err := b.Payout()
		if err != nil {
			return nil, fmt.Errorf("failed to compute payout for bet %d: %w", b.ID, err)
		}
		credits[b.UserID] = credits[b.UserID].Add(payout)
	}
	return credits, nil
}
