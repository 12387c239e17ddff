package entity

import (
	"time"

	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
)

// Account tracks a single user's current credit balance. It is a cached
// projection of the transaction log: balance must always equal the sum of
// amounts over the user's transactions.
type Account struct {
	ID        string
	UserID    string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an account with a zero balance for the given user
func NewAccount(id, userID string, timeProvider coreport.TimeProvider) (*Account, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	now := timeProvider.Now()
	return &Account{
		ID:        id,
		UserID:    userID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply adds a signed delta to the balance. A debit that would drive the
// balance negative is rejected without mutating the account.
func (a *Account) Apply(amount int64, timeProvider coreport.TimeProvider) error {
	newBalance := a.Balance + amount
	if newBalance < 0 {
		return errs.NewInsufficientBalanceError(a.UserID, amount, a.Balance)
	}

	a.Balance = newBalance
	a.UpdatedAt = timeProvider.Now()
	return nil
}
