package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/race-betting-ledger/internal/betting_api/service"
	"github.com/race-betting-ledger/internal/domain/account"
	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/domain/outbox"
)

// OutboxLedgerJournal writes ledger entries to the transactional outbox
type OutboxLedgerJournal struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewLedgerJournal(outboxRepo outbox.Repository, logger *slog.Logger) service.LedgerJournal {
	return &OutboxLedgerJournal{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// RecordStakeDebit appends the STAKE_DEBIT entry of a freshly placed bet
func (j *OutboxLedgerJournal) RecordStakeDebit(ctx context.Context, tx pgx.Tx, placed *bet.Bet, balanceAfter money.Money, correlationID string) error {
	entry := ledger.NewStakeDebit(placed.UserID, placed.ID, placed.EventID, placed.Amount, balanceAfter, correlationID)
	return j.append(ctx, j.outboxRepo.WithTx(tx), entry)
}

// RecordPayoutCredits appends one PAYOUT_CREDIT entry per credited account
func (j *OutboxLedgerJournal) RecordPayoutCredits(
	ctx context.Context,
	tx pgx.Tx,
	eventID string,
	credits map[int64]money.Money,
	accounts []*account.Account,
	correlationID string,
) error {
	outboxRepoTx := j.outboxRepo.WithTx(tx)
	for _, acc := range accounts {
		payout, ok := credits[acc.UserID]
		if !ok {
			continue
		}
		entry := ledger.NewPayoutCredit(acc.UserID, eventID, payout, acc.Balance, correlationID)
		if err := j.append(ctx, outboxRepoTx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (j *OutboxLedgerJournal) append(ctx context.Context, outboxRepoTx outbox.Repository, entry *ledger.Entry) error {
	log := j.logger
	if entry.CorrelationID != "" {
		log = j.logger.With("correlation_id", entry.CorrelationID)
	}

	message, err := outbox.NewMessage(entry)
	if err != nil {
		log.Error("Failed to encode ledger entry for outbox", "entry_id", entry.EntryID.String(), "error", err)
		return fmt.Errorf("failed to create outbox message for entry %s: %w", entry.EntryID.String(), err)
	}

	if err := outboxRepoTx.Create(ctx, message); err != nil {
		return fmt.Errorf("failed to create outbox message for entry %s: %w", entry.EntryID.String(), err)
	}

	log.Debug("Ledger entry queued in outbox",
		"outbox_id", message.ID,
		"entry_id", entry.EntryID.String(),
		"type", entry.Type,
		"user_id", entry.UserID,
	)
	return nil
}
