package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestNewStakeDebit(t *testing.T) {
	entry := NewStakeDebit(7, 42, "9158", money.MustParse("10"), money.MustParse("90"), "corr-1")

	assert.NotEqual(t, uuid.Nil, entry.EntryID)
	assert.Equal(t, shared.EntryTypeStakeDebit, entry.Type)
	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, int64(42), entry.BetID)
	assert.Equal(t, "10.00", entry.Amount)
	assert.Equal(t, "90.00", entry.BalanceAfter)
	assert.Equal(t, "corr-1", entry.CorrelationID)
	assert.Nil(t, entry.RecordedAt)
}

func TestNewPayoutCredit(t *testing.T) {
	entry := NewPayoutCredit(7, "9158", money.MustParse("80"), money.MustParse("170"), "")

	assert.Equal(t, shared.EntryTypePayoutCredit, entry.Type)
	assert.Zero(t, entry.BetID)
	assert.Equal(t, "80.00", entry.Amount)
}

func TestErrors_Is(t *testing.T) {
	id := uuid.New()

	assert.ErrorIs(t, ErrEntryNotFound{EntryID: id}, ErrEntryNotFound{})
	assert.ErrorIs(t, ErrEntryNotFound{EntryID: id}, ErrEntryNotFound{EntryID: id})
	assert.NotErrorIs(t, ErrEntryNotFound{EntryID: id}, ErrEntryNotFound{EntryID: uuid.New()})
	assert.ErrorIs(t, ErrDuplicateEntry{EntryID: id}, ErrDuplicateEntry{})
	assert.NotErrorIs(t, ErrDuplicateEntry{EntryID: id}, ErrEntryNotFound{})
}
