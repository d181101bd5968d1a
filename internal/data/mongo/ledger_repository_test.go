package mongo

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/domain/money"
)

const testNamespace = "ledger.ledger_entries"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func entryDocument(e *ledger.Entry) bson.D {
	return bson.D{
		{Key: "entry_id", Value: e.EntryID},
		{Key: "user_id", Value: e.UserID},
		{Key: "event_id", Value: e.EventID},
		{Key: "type", Value: e.Type},
		{Key: "amount", Value: e.Amount},
		{Key: "balance_after", Value: e.BalanceAfter},
		{Key: "created_at", Value: e.CreatedAt},
	}
}

func TestLedgerRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	entry := ledger.NewPayoutCredit(1, "9158", money.MustParse("80.00"), money.MustParse("170.00"), "corr-1")

	mt.Run("successful creation", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		assert.NoError(mt, repo.Create(ctx, entry))
	})

	mt.Run("existing entry", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, entryDocument(entry)))

		err := repo.Create(ctx, entry)

		assert.ErrorIs(mt, err, ledger.ErrDuplicateEntry{EntryID: entry.EntryID})
	})

	mt.Run("duplicate key on insert", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}),
		)

		err := repo.Create(ctx, entry)

		assert.ErrorIs(mt, err, ledger.ErrDuplicateEntry{})
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}),
		)

		err := repo.Create(ctx, entry)

		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to create ledger entry")
	})
}

func TestLedgerRepository_GetByEntryID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	entry := ledger.NewStakeDebit(2, 11, "9158", money.MustParse("10.00"), money.MustParse("90.00"), "corr-2")

	mt.Run("entry found", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, entryDocument(entry)))

		found, err := repo.GetByEntryID(ctx, entry.EntryID)

		require.NoError(mt, err)
		assert.Equal(mt, entry.EntryID, found.EntryID)
		assert.Equal(mt, "10.00", found.Amount)
		assert.Equal(mt, "90.00", found.BalanceAfter)
	})

	mt.Run("entry not found", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		found, err := repo.GetByEntryID(ctx, entry.EntryID)

		assert.Nil(mt, found)
		assert.ErrorIs(mt, err, ledger.ErrEntryNotFound{EntryID: entry.EntryID})
	})
}

func TestLedgerRepository_GetByUserID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("returns entries", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		first := ledger.NewStakeDebit(3, 1, "9158", money.MustParse("5.00"), money.MustParse("95.00"), "")
		second := ledger.NewPayoutCredit(3, "9158", money.MustParse("15.00"), money.MustParse("110.00"), "")
		second.CreatedAt = first.CreatedAt.Add(time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			entryDocument(second), entryDocument(first)))

		entries, err := repo.GetByUserID(ctx, 3, 20, 0)

		require.NoError(mt, err)
		require.Len(mt, entries, 2)
		assert.Equal(mt, second.EntryID, entries[0].EntryID)
		assert.Equal(mt, first.EntryID, entries[1].EntryID)
	})

	mt.Run("empty page", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		entries, err := repo.GetByUserID(ctx, 3, 20, 40)

		require.NoError(mt, err)
		assert.NotNil(mt, entries)
		assert.Empty(mt, entries)
	})

	mt.Run("find failure", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "boom"}))

		_, err := repo.GetByUserID(ctx, 3, 20, 0)

		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to get ledger entries")
	})
}

func TestLedgerRepository_CountByUserID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("count", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}}))

		count, err := repo.CountByUserID(context.Background(), 1)

		require.NoError(mt, err)
		assert.Equal(mt, int64(3), count)
	})
}

func TestLedgerRepository_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("created", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.EnsureIndexes(context.Background()))
	})

	mt.Run("failure", func(mt *mtest.T) {
		repo := NewLedgerRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Message: "index conflict"}))

		err := repo.EnsureIndexes(context.Background())

		assert.Error(mt, err)
	})
}

func TestNewLedgerRepository(t *testing.T) {
	repo := NewLedgerRepository(newTestLogger(), nil)
	assert.NotNil(t, repo)
	var _ ledger.Repository = repo
}
