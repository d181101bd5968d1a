package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/domain/shared"
	"github.com/race-betting-ledger/internal/ledger_recorder/service"
)

type EntryValidatorImpl struct {
	ledgerRepo ledger.Repository
	logger     *slog.Logger
}

func NewEntryValidator(ledgerRepo ledger.Repository, logger *slog.Logger) service.EntryValidator {
	return &EntryValidatorImpl{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// Validate returns a service.InvalidEntryError for entries that can never be recorded
func (v *EntryValidatorImpl) Validate(_ context.Context, entry *ledger.Entry) error {
	if entry.EntryID == uuid.Nil {
		return service.InvalidEntryError{Reason: shared.RejectionReasonMissingEntryID, Detail: "entry_id is required"}
	}

	if !entry.Type.IsValid() {
		return service.InvalidEntryError{
			Reason: shared.RejectionReasonUnknownType,
			Detail: fmt.Sprintf("unknown entry type %q", entry.Type),
		}
	}

	if entry.UserID <= 0 {
		return service.InvalidEntryError{Reason: shared.RejectionReasonMissingUser, Detail: "user_id must be positive"}
	}

	amount, err := decimal.NewFromString(entry.Amount)
	if err != nil || !amount.IsPositive() {
		return service.InvalidEntryError{
			Reason: shared.RejectionReasonInvalidAmount,
			Detail: fmt.Sprintf("amount must be positive, got %q", entry.Amount),
		}
	}

	if _, err := decimal.NewFromString(entry.BalanceAfter); err != nil {
		return service.InvalidEntryError{
			Reason: shared.RejectionReasonInvalidAmount,
			Detail: fmt.Sprintf("balance_after is not a decimal: %q", entry.BalanceAfter),
		}
	}

	return nil
}

// CheckIdempotency reports whether the entry is already in the ledger
func (v *EntryValidatorImpl) CheckIdempotency(ctx context.Context, entry *ledger.Entry) (bool, error) {
	existing, err := v.ledgerRepo.GetByEntryID(ctx, entry.EntryID)
	if err != nil && !errors.Is(err, ledger.ErrEntryNotFound{}) {
		v.logger.Error("Failed to check ledger for idempotency", "entry_id", entry.EntryID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for entry %s: %w", entry.EntryID, err)
	}

	if existing != nil {
		v.logger.Info("Ledger entry already recorded", "entry_id", entry.EntryID.String(), "recorded_at", existing.RecordedAt)
		return true, nil
	}

	return false, nil
}
