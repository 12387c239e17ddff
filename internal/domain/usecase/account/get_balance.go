package account

import (
	"context"
	"errors"

	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
)

// UseCase handles the ledger's read paths: current balance and paginated
// transaction history
type UseCase struct {
	accountRepo     persistence.AccountRepository
	transactionRepo persistence.TransactionRepository
	logger          coreport.Logger
}

// NewUseCase creates a new account use case instance
func NewUseCase(
	accountRepo persistence.AccountRepository,
	transactionRepo persistence.TransactionRepository,
	logger coreport.Logger,
) *UseCase {
	return &UseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// GetBalance returns the user's current balance. A user without an account
// row has a zero balance, not an error.
func (u *UseCase) GetBalance(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, errs.ErrInvalidUserID
	}

	account, err := u.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrAccountNotFound) {
			return 0, nil
		}
		u.logger.Error("Failed to get balance", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return 0, err
	}

	return account.Balance, nil
}
