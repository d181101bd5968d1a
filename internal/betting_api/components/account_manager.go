package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/race-betting-ledger/internal/betting_api/service"
	"github.com/race-betting-ledger/internal/domain/account"
	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/logger"
)

// AccountManagerImpl implements the AccountManager interface
type AccountManagerImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

func NewAccountManager(accountRepo account.Repository, logger *slog.Logger) service.AccountManager {
	return &AccountManagerImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// DebitStake locks the user's account, takes the stake from it and persists the new balance.
// Nothing is written when the account is missing or the balance does not cover the stake.
func (m *AccountManagerImpl) DebitStake(ctx context.Context, tx pgx.Tx, userID int64, stake money.Money) (*account.Account, error) {
	log := logger.FromContext(ctx, m.logger).With("user_id", userID)
	accountRepoTx := m.accountRepo.WithTx(tx)

	locked, err := accountRepoTx.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			log.Warn("Account not found for stake debit")
			return nil, bet.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account of user %d: %w", userID, err)
	}
	log.Debug("Account locked", "account_id", locked.ID, "balance", locked.Balance.String())

	debited, ok := locked.Debit(stake)
	if !ok {
		log.Warn("Insufficient funds for stake", "balance", locked.Balance.String(), "stake", stake.String())
		return nil, bet.ErrInsufficientFunds
	}

	if err := accountRepoTx.Save(ctx, &debited); err != nil {
		return nil, fmt.Errorf("failed to save debited account of user %d: %w", userID, err)
	}
	log.Info("Stake debited", "account_id", debited.ID, "new_balance", debited.Balance.String())

	return &debited, nil
}

// CreditPayouts locks the accounts of every credited user in ascending user order,
// adds each user's payout once and persists them together.
func (m *AccountManagerImpl) CreditPayouts(ctx context.Context, tx pgx.Tx, credits map[int64]money.Money) ([]*account.Account, error) {
	if len(credits) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx, m.logger)
	accountRepoTx := m.accountRepo.WithTx(tx)

	userIDs := make([]int64, 0, len(credits))
	for userID := range credits {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	locked, err := accountRepoTx.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for payout: %w", err)
	}
	if len(locked) != len(userIDs) {
		found := make(map[int64]struct{}, len(locked))
		for _, acc := range locked {
			found[acc.UserID] = struct{}{}
		}
		for _, userID := range userIDs {
			if _, ok := found[userID]; !ok {
				log.Error("Winning user has no account", "user_id", userID)
				return nil, account.ErrAccountNotFound{UserID: userID}
			}
		}
	}

	credited := make([]*account.Account, 0, len(locked))
	for _, acc := range locked {
		updated := acc.Credit(credits[acc.UserID])
		credited = append(credited, &updated)
	}

	if err := accountRepoTx.SaveAll(ctx, credited); err != nil {
		return nil, fmt.Errorf("failed to save credited accounts: %w", err)
	}
	log.Info("Payouts credited", "account_count", len(credited))

	return credited, nil
}
