package persistence

import (
	"context"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
)

// LedgerHoldRepository manages per-user write holds placed by the reconciler
type LedgerHoldRepository interface {
	// Place records a hold for the user. Placing a hold twice is a no-op; the
	// first recorded mismatch wins.
	//
	// Possible errors:
	// - ErrStorageUnavailable: if the database is unreachable
	Place(ctx context.Context, hold *entity.LedgerHold) error

	// Get retrieves the hold for a user
	//
	// Possible errors:
	// - ErrNotFound semantics: returns (nil, nil) when no hold exists
	// - ErrStorageUnavailable: if the database is unreachable
	Get(ctx context.Context, userID string) (*entity.LedgerHold, error)

	// Release removes the hold for a user after operator intervention
	//
	// Possible errors:
	// - ErrStorageUnavailable: if the database is unreachable
	Release(ctx context.Context, userID string) error
}
