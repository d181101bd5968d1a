package service

import (
	"context"
	"fmt"

	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/domain/shared"
)

// RecordingService stores journal entries relayed from the betting API
type RecordingService interface {
	// RecordEntry returns nil once the entry is recorded, rejected or found to be a duplicate.
	// Any other error leaves the Kafka offset uncommitted.
	RecordEntry(ctx context.Context, entry *ledger.Entry) error
}

// EntryValidator checks relayed entries before they are stored
type EntryValidator interface {
	Validate(ctx context.Context, entry *ledger.Entry) error
	CheckIdempotency(ctx context.Context, entry *ledger.Entry) (bool, error)
}

// RejectionRecorder parks entries that can never be recorded
type RejectionRecorder interface {
	RecordRejection(ctx context.Context, entry *ledger.Entry, reason shared.RejectionReason) error
}

// InvalidEntryError is returned by EntryValidator.Validate
type InvalidEntryError struct {
	Reason shared.RejectionReason
	Detail string
}

func (e InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid ledger entry (%s): %s", e.Reason, e.Detail)
}
