package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/race"
	"github.com/race-betting-ledger/internal/logger"
	"github.com/race-betting-ledger/internal/platform/metrics"
	"github.com/race-betting-ledger/internal/platform/persistence"
)

// EventSettlementService settles the pending bets of a finished event
type EventSettlementService struct {
	txManager persistence.TxManager
	betRepo   bet.Repository
	accounts  AccountManager
	journal   LedgerJournal
	policy    bet.SettlementPolicy
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewSettlementService(
	logger *slog.Logger,
	txManager persistence.TxManager,
	betRepo bet.Repository,
	accounts AccountManager,
	journal LedgerJournal,
	policy bet.SettlementPolicy,
	m *metrics.Metrics,
) *EventSettlementService {
	return &EventSettlementService{
		txManager: txManager,
		betRepo:   betRepo,
		accounts:  accounts,
		journal:   journal,
		policy:    policy,
		metrics:   m,
		logger:    logger,
	}
}

// Settle runs the settlement in its own transaction
func (s *EventSettlementService) Settle(ctx context.Context, eventID string, winningDriverID int) error {
	return s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.SettleInTx(ctx, tx, eventID, winningDriverID)
	})
}

// SettleInTx resolves every pending bet of the event and credits each winning user once.
// Accounts of users without a winning bet are neither read nor written.
func (s *EventSettlementService) SettleInTx(ctx context.Context, tx pgx.Tx, eventID string, winningDriverID int) error {
	log := logger.FromContext(ctx, s.logger).With("event_id", eventID, "winning_driver_id", winningDriverID)
	betRepo := s.betRepo.WithTx(tx)

	pending, err := betRepo.FindByEventAndStatus(ctx, eventID, bet.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to load pending bets for event %s: %w", eventID, err)
	}
	if len(pending) == 0 {
		log.Info("No pending bets to settle")
		return nil
	}

	resolved := s.policy.Resolve(pending, winningDriverID)
	if err := betRepo.SaveAll(ctx, resolved); err != nil {
		return fmt.Errorf("failed to save resolved bets for event %s: %w", eventID, err)
	}

	credits, err := s.policy.CreditsByUser(resolved)
	if err != nil {
		return err
	}

	if len(credits) > 0 {
		accounts, err := s.accounts.CreditPayouts(ctx, tx, credits)
		if err != nil {
			return err
		}
		if err := s.journal.RecordPayoutCredits(ctx, tx, eventID, credits, accounts, logger.CorrelationIDFromContext(ctx)); err != nil {
			return err
		}
	}

	creditedUsers := len(credits)
	persistence.AfterCommit(tx, func() { s.metrics.EventSettled(creditedUsers) })
	log.Info("Event settled",
		"resolved_bets", len(resolved),
		"credited_users", len(credits),
	)
	return nil
}

// HandleEventFinished settles the event inside the transaction that recorded its outcome
func (s *EventSettlementService) HandleEventFinished(ctx context.Context, tx pgx.Tx, event race.EventFinished) error {
	return s.SettleInTx(ctx, tx, event.EventID, event.WinningDriverID)
}
