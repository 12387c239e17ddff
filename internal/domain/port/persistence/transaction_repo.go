package persistence

import (
	"context"
	"time"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
)

// HistoryCursor marks a position in a user's transaction history. Pages are
// ordered by (created_at DESC, id DESC); the cursor carries the last returned
// row's sort key so paging is stable under concurrent inserts.
type HistoryCursor struct {
	CreatedAt time.Time
	ID        string
}

// TransactionRepository defines methods to interact with the append-only
// transaction log
type TransactionRepository interface {
	// Create appends a new transaction row
	//
	// Possible errors:
	// - ErrDuplicateIdempotencyKey: if (user_id, idempotency_key) already exists
	// - ErrUnknownUser: if the referenced user does not exist
	// - ErrStorageUnavailable: if the database is unreachable
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByIdempotencyKey retrieves the transaction previously recorded for the
	// given (userID, key) pair. Used to resolve retried deltas to their original
	// result.
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction carries the key
	// - ErrStorageUnavailable: if the database is unreachable
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*entity.Transaction, error)

	// ListByUser returns up to limit transactions newest-first, starting after
	// the cursor position (or from the head when cursor is nil)
	//
	// Possible errors:
	// - ErrStorageUnavailable: if the database is unreachable
	ListByUser(ctx context.Context, userID string, limit int, cursor *HistoryCursor) ([]*entity.Transaction, error)

	// SumAmounts returns the sum of amounts over all of a user's transactions.
	// Used by the reconciler to verify the balance projection.
	//
	// Possible errors:
	// - ErrStorageUnavailable: if the database is unreachable
	SumAmounts(ctx context.Context, userID string) (int64, error)
}
