package persistence

import (
	"context"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
)

// AccountRepository defines methods to interact with account rows
type AccountRepository interface {
	// GetByUserID retrieves the account owned by the given user
	//
	// Possible errors:
	// - ErrAccountNotFound: if no account row exists for the user yet
	// - ErrStorageUnavailable: if the database is unreachable
	GetByUserID(ctx context.Context, userID string) (*entity.Account, error)

	// GetForUpdate retrieves the account and takes an exclusive row lock on it.
	// Must be called inside a unit of work; concurrent deltas for the same user
	// serialize on this lock, deltas for different users never contend.
	//
	// Possible errors:
	// - ErrAccountNotFound: if no account row exists for the user yet
	// - ErrStorageUnavailable: if the database is unreachable or the lock wait
	//   exceeds the store timeout
	GetForUpdate(ctx context.Context, userID string) (*entity.Account, error)

	// Create inserts a new account row. Used for lazy creation on first grant.
	//
	// Possible errors:
	// - ErrUnknownUser: if the owning user does not exist in the user store
	// - ErrStorageUnavailable: if the database is unreachable
	Create(ctx context.Context, account *entity.Account) error

	// UpdateBalance persists the account's balance and updated_at
	//
	// Possible errors:
	// - ErrAccountNotFound: if the account row disappeared
	// - ErrStorageUnavailable: if the database is unreachable
	UpdateBalance(ctx context.Context, account *entity.Account) error
}
