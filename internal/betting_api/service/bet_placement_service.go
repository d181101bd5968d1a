package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/logger"
	"github.com/race-betting-ledger/internal/platform/metrics"
	"github.com/race-betting-ledger/internal/platform/persistence"
)

// BetPlacementService implements BetService
type BetPlacementService struct {
	txManager   persistence.TxManager
	markets     MarketProvider
	betRepo     bet.Repository
	accounts    AccountManager
	journal     LedgerJournal
	idempotency IdempotencyStore // optional
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewBetPlacementService(
	logger *slog.Logger,
	txManager persistence.TxManager,
	markets MarketProvider,
	betRepo bet.Repository,
	accounts AccountManager,
	journal LedgerJournal,
	idempotency IdempotencyStore,
	m *metrics.Metrics,
) *BetPlacementService {
	return &BetPlacementService{
		txManager:   txManager,
		markets:     markets,
		betRepo:     betRepo,
		accounts:    accounts,
		journal:     journal,
		idempotency: idempotency,
		metrics:     m,
		logger:      logger,
	}
}

// PlaceBet locks in the current odds for the driver, debits the stake and stores a pending bet.
// With an idempotency key a repeated request returns the bet created by the first one.
func (s *BetPlacementService) PlaceBet(ctx context.Context, userID int64, cmd PlaceBetCommand) (int64, error) {
	log := s.logger.With("user_id", userID, "event_id", cmd.EventID, "driver_id", cmd.DriverID)
	if cmd.CorrelationID != "" {
		log = log.With("correlation_id", cmd.CorrelationID)
	} else {
		log = logger.FromContext(ctx, log)
	}

	idempotent := cmd.IdempotencyKey != "" && s.idempotency != nil
	if idempotent {
		existingBetID, reserved, err := s.idempotency.Reserve(ctx, userID, cmd.IdempotencyKey)
		if err != nil {
			log.Error("Failed to reserve idempotency key", "error", err)
			s.metrics.BetPlaced(string(bet.ErrInternal))
			return 0, bet.ErrInternal
		}
		if !reserved {
			if existingBetID == 0 {
				log.Warn("Placement with the same idempotency key is still in progress")
				s.metrics.BetPlaced(string(bet.ErrPlacementInProgress))
				return 0, bet.ErrPlacementInProgress
			}
			log.Info("Replaying completed placement", "bet_id", existingBetID)
			s.metrics.BetPlaced("replayed")
			return existingBetID, nil
		}
	}

	betID, err := s.placeBet(ctx, log, userID, cmd)

	if idempotent {
		if err != nil {
			if releaseErr := s.idempotency.Release(ctx, userID, cmd.IdempotencyKey); releaseErr != nil {
				log.Error("Failed to release idempotency key", "error", releaseErr)
			}
		} else if completeErr := s.idempotency.Complete(ctx, userID, cmd.IdempotencyKey, betID); completeErr != nil {
			// the bet is committed; a replay inside the TTL will report in progress
			log.Error("Failed to complete idempotency key", "bet_id", betID, "error", completeErr)
		}
	}

	s.metrics.BetPlaced(placementOutcome(err))
	return betID, err
}

func (s *BetPlacementService) placeBet(ctx context.Context, log *slog.Logger, userID int64, cmd PlaceBetCommand) (int64, error) {
	markets, err := s.markets.GetDriverMarket(ctx, cmd.EventID, cmd.DriverID)
	if err != nil {
		log.Error("Failed to query driver market", "error", err)
		return 0, bet.ErrInternal
	}
	if len(markets) == 0 {
		log.Warn("Driver market not found")
		return 0, bet.ErrDriverMarketNotFound
	}
	if len(markets) > 1 {
		log.Warn("Several driver markets returned, using the first one", "count", len(markets))
	}
	odds := markets[0].Odds.Value()

	var placed *bet.Bet
	err = s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		acc, err := s.accounts.DebitStake(ctx, tx, userID, cmd.Amount)
		if err != nil {
			return err
		}

		b := bet.NewPendingBet(userID, cmd.EventID, cmd.DriverID, cmd.Amount, odds)
		if err := s.betRepo.WithTx(tx).Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save bet: %w", err)
		}

		if err := s.journal.RecordStakeDebit(ctx, tx, b, acc.Balance, cmd.CorrelationID); err != nil {
			return err
		}

		placed = b
		return nil
	})
	if err != nil {
		var rejection bet.PlacementError
		if errors.As(err, &rejection) {
			log.Warn("Bet placement rejected", "reason", rejection.Code(), "amount", cmd.Amount.String())
			return 0, rejection
		}
		log.Error("Failed to place bet", "error", err)
		return 0, err
	}

	log.Info("Bet placed",
		"bet_id", placed.ID,
		"amount", placed.Amount.String(),
		"odds", placed.Odds,
	)
	return placed.ID, nil
}

// GetBets returns the user's bets ordered by ID descending
func (s *BetPlacementService) GetBets(ctx context.Context, userID int64) ([]*bet.Bet, error) {
	bets, err := s.betRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to list bets", "user_id", userID, "error", err)
		return nil, err
	}
	return bets, nil
}

func placementOutcome(err error) string {
	if err == nil {
		return "placed"
	}
	var rejection bet.PlacementError
	if errors.As(err, &rejection) {
		return rejection.Code()
	}
	return string(bet.ErrInternal)
}
