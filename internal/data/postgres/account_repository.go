// Package postgres provides PostgreSQL implementations of the domain repositories.
// Monetary columns are NUMERIC(14,2); they are read back as text and exchanged as fixed two-decimal strings.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/race-betting-ledger/internal/domain/account"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx. Row locks taken through it last until tx ends.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// FindByUserID locks the user's account row and returns its current state
func (r *AccountRepository) FindByUserID(ctx context.Context, userID int64) (*account.Account, error) {
	query := `
		SELECT id, user_id, account_balance::text, updated_at
		FROM accounts
		WHERE user_id = $1
		FOR UPDATE
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{UserID: userID}
		}
		r.logger.Error("Failed to lock account for update", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}

	return acc, nil
}

// FindByUserIDs locks the accounts of all given users. Rows are locked in ascending
// user order so that concurrent settlements cannot deadlock each other.
func (r *AccountRepository) FindByUserIDs(ctx context.Context, userIDs []int64) ([]*account.Account, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, account_balance::text, updated_at
		FROM accounts
		WHERE user_id = ANY($1)
		ORDER BY user_id
		FOR UPDATE
	`

	rows, err := r.querier.Query(ctx, query, userIDs)
	if err != nil {
		r.logger.Error("Failed to lock accounts for update", "user_count", len(userIDs), "error", err)
		return nil, fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over accounts", "error", err)
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// Save persists the account balance
func (r *AccountRepository) Save(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET account_balance = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, acc.Balance.String(), acc.UpdatedAt, acc.ID)
	if err != nil {
		r.logger.Error("Failed to save account", "account_id", acc.ID, "user_id", acc.UserID, "error", err)
		return fmt.Errorf("failed to save account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{UserID: acc.UserID}
	}

	return nil
}

func (r *AccountRepository) SaveAll(ctx context.Context, accounts []*account.Account) error {
	for _, acc := range accounts {
		if err := r.Save(ctx, acc); err != nil {
			return err
		}
	}
	return nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var (
		acc     account.Account
		balance string
	)
	if err := row.Scan(&acc.ID, &acc.UserID, &balance, &acc.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := money.Parse(balance)
	if err != nil {
		return nil, err
	}
	acc.Balance = parsed

	return &acc, nil
}
