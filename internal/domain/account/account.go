package account

import (
	"time"

	"github.com/race-betting-ledger/internal/domain/money"
)

// Account holds a user's spendable balance. Accounts are provisioned up front and never deleted.
type Account struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Balance   money.Money `json:"balance"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Credit returns a copy of the account with amount added to its balance.
func (a Account) Credit(amount money.Money) Account {
	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now()
	return a
}

// Debit returns a copy with amount removed, or false when the balance does not cover it.
func (a Account) Debit(amount money.Money) (Account, bool) {
	if !a.CanDebit(amount) {
		return Account{}, false
	}
	balance, err := a.Balance.Subtract(amount)
	if err != nil {
		return Account{}, false
	}
	a.Balance = balance
	a.UpdatedAt = time.Now()
	return a, true
}

// CanDebit checks if the balance covers amount.
func (a Account) CanDebit(amount money.Money) bool {
	return a.Balance.Cmp(amount) >= 0
}
