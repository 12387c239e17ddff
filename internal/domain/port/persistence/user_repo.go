package persistence

import "context"

// UserRepository reads the externally-owned user store. The ledger never
// creates or authenticates users; it only checks that a referenced user exists.
type UserRepository interface {
	// Exists reports whether a user with the given ID exists
	//
	// Possible errors:
	// - ErrStorageUnavailable: if the database is unreachable
	Exists(ctx context.Context, userID string) (bool, error)

	// ListIDs returns all known user IDs. Used by the reconciler sweep.
	//
	// Possible errors:
	// - ErrStorageUnavailable: if the database is unreachable
	ListIDs(ctx context.Context) ([]string, error)
}
