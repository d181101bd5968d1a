package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDB_Pool(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	var nilPool *pgxpool.Pool
	db := &PostgresDB{
		pool:   nilPool,
		logger: logger,
	}
	assert.Equal(t, nilPool, db.Pool())
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "UniqueViolation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "WrappedUniqueViolation", err: fmt.Errorf("insert outcome: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "OtherPgError", err: &pgconn.PgError{Code: "40001"}, want: false},
		{name: "PlainError", err: errors.New("boom"), want: false},
		{name: "Nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestAfterCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("RunsOnlyAfterCommit", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()
		tx, err := mock.Begin(ctx)
		require.NoError(t, err)
		hooked := &commitHookTx{Tx: tx}

		ran := 0
		AfterCommit(hooked, func() { ran++ })
		assert.Equal(t, 0, ran)

		require.NoError(t, hooked.Commit(ctx))
		assert.Equal(t, 1, ran)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DiscardedOnRollback", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()
		tx, err := mock.Begin(ctx)
		require.NoError(t, err)
		hooked := &commitHookTx{Tx: tx}

		ran := false
		AfterCommit(hooked, func() { ran = true })
		require.NoError(t, hooked.Rollback(ctx))

		assert.False(t, ran)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FailedCommitSkipsCallbacks", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
		tx, err := mock.Begin(ctx)
		require.NoError(t, err)
		hooked := &commitHookTx{Tx: tx}

		ran := false
		AfterCommit(hooked, func() { ran = true })

		assert.Error(t, hooked.Commit(ctx))
		assert.False(t, ran)
	})

	t.Run("RunsImmediatelyOutsideExecuteTx", func(t *testing.T) {
		ran := false
		AfterCommit(nil, func() { ran = true })
		assert.True(t, ran)
	})
}
