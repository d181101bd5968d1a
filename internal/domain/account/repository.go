package account

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Repository defines account persistence operations
type Repository interface {
	// FindByUserID reads the user's account holding a row lock until the surrounding transaction ends
	FindByUserID(ctx context.Context, userID int64) (*Account, error)

	// FindByUserIDs locks the accounts of all given users in ascending user order
	FindByUserIDs(ctx context.Context, userIDs []int64) ([]*Account, error)

	Save(ctx context.Context, account *Account) error
	SaveAll(ctx context.Context, accounts []*Account) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	UserID int64
}

func (e ErrAccountNotFound) Error() string {
	return "account not found for user: " + strconv.FormatInt(e.UserID, 10)
}

func (e ErrAccountNotFound) Is(target error) bool {
	_, ok := target.(ErrAccountNotFound)
	return ok
}
