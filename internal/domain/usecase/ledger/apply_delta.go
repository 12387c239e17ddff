package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
)

// DeltaResult is the outcome of a successfully applied delta
type DeltaResult struct {
	Balance       int64
	TransactionID string
}

// DeltaApplier executes a balance delta as one atomic unit: lock the account
// row, re-check idempotency under the lock, update the balance and append the
// transaction, commit. Concurrent deltas for the same user serialize on the
// row lock; deltas for different users never contend.
type DeltaApplier struct {
	uow          persistence.UnitOfWork
	holdRepo     persistence.LedgerHoldRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewDeltaApplier creates a new DeltaApplier
func NewDeltaApplier(
	uow persistence.UnitOfWork,
	holdRepo persistence.LedgerHoldRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *DeltaApplier {
	return &DeltaApplier{
		uow:          uow,
		holdRepo:     holdRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Apply durably applies a signed delta to the user's balance and records the
// transaction. If idempotencyKey was seen before for this user, the previously
// committed result is returned without reapplying.
func (a *DeltaApplier) Apply(
	ctx context.Context,
	userID string,
	amount int64,
	txnType string,
	description string,
	idempotencyKey string,
) (*DeltaResult, error) {
	hold, err := a.holdRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger hold: %w", err)
	}
	if hold != nil {
		a.logger.Warn("Delta rejected, ledger hold in place", map[string]any{
			"user_id": userID,
			"reason":  hold.Reason,
		})
		return nil, errs.NewDeltaError(userID, amount, txnType, idempotencyKey,
			"writes halted pending reconciliation", errs.ErrLedgerHeld)
	}

	// Two attempts: a lazy account creation can lose the race against a
	// concurrent first grant, after which the existing row can be locked.
	for attempt := 0; ; attempt++ {
		result, err := a.applyOnce(ctx, userID, amount, txnType, description, idempotencyKey)
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, errs.ErrDuplicateIdempotencyKey):
			// A concurrent apply with the same key committed first.
			return a.resolvePrior(ctx, userID, idempotencyKey)
		case errors.Is(err, errs.ErrAccountExists) && attempt == 0:
			a.logger.Debug("Account creation raced, retrying against existing row", map[string]any{
				"user_id": userID,
			})
			continue
		default:
			return nil, err
		}
	}
}

// applyOnce runs a single attempt inside one store transaction
func (a *DeltaApplier) applyOnce(
	ctx context.Context,
	userID string,
	amount int64,
	txnType string,
	description string,
	idempotencyKey string,
) (*DeltaResult, error) {
	txCtx, err := a.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, err.Error())
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := a.uow.Rollback(txCtx); rbErr != nil {
				a.logger.Error("Failed to rollback delta transaction", map[string]any{
					"user_id": userID,
					"error":   rbErr.Error(),
				})
			}
		}
	}()

	accounts := a.uow.GetAccountRepository(txCtx)
	transactions := a.uow.GetTransactionRepository(txCtx)
	users := a.uow.GetUserRepository(txCtx)

	account, err := accounts.GetForUpdate(txCtx, userID)
	if errors.Is(err, errs.ErrAccountNotFound) {
		account, err = a.createAccount(txCtx, users, accounts, userID)
	}
	if err != nil {
		return nil, err
	}

	// Authoritative idempotency check under the row lock. The pre-lock fast
	// path in the service can miss an apply that committed in between.
	if idempotencyKey != "" {
		prior, err := transactions.GetByIdempotencyKey(txCtx, userID, idempotencyKey)
		if err == nil {
			a.logger.Info("Delta already applied, returning prior result", map[string]any{
				"user_id":         userID,
				"idempotency_key": idempotencyKey,
				"transaction_id":  prior.ID,
			})
			return &DeltaResult{Balance: prior.BalanceAfter, TransactionID: prior.ID}, nil
		}
		if !errors.Is(err, errs.ErrTransactionNotFound) {
			return nil, err
		}
	}

	if err := account.Apply(amount, a.timeProvider); err != nil {
		a.logger.Warn("Delta rejected", map[string]any{
			"user_id": userID,
			"amount":  amount,
			"balance": account.Balance,
			"error":   err.Error(),
		})
		return nil, err
	}

	txn, err := entity.NewTransaction(
		xid.New().String(), userID, txnType, amount, description, idempotencyKey, a.timeProvider)
	if err != nil {
		return nil, err
	}
	txn.RecordResult(account.Balance)

	if err := accounts.UpdateBalance(txCtx, account); err != nil {
		return nil, err
	}
	if err := transactions.Create(txCtx, txn); err != nil {
		return nil, err
	}

	if err := a.uow.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, err.Error())
	}
	committed = true

	a.logger.Info("Delta applied", map[string]any{
		"user_id":        userID,
		"amount":         amount,
		"type":           txnType,
		"new_balance":    account.Balance,
		"transaction_id": txn.ID,
	})

	return &DeltaResult{Balance: account.Balance, TransactionID: txn.ID}, nil
}

// createAccount lazily creates the account row inside the current transaction
func (a *DeltaApplier) createAccount(
	txCtx context.Context,
	users persistence.UserRepository,
	accounts persistence.AccountRepository,
	userID string,
) (*entity.Account, error) {
	exists, err := users.Exists(txCtx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrUnknownUser
	}

	account, err := entity.NewAccount(xid.New().String(), userID, a.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := accounts.Create(txCtx, account); err != nil {
		return nil, err
	}

	a.logger.Info("Account created", map[string]any{
		"user_id":    userID,
		"account_id": account.ID,
	})
	return account, nil
}

// resolvePrior fetches the transaction that won an idempotency-key race
func (a *DeltaApplier) resolvePrior(ctx context.Context, userID, idempotencyKey string) (*DeltaResult, error) {
	prior, err := a.uow.GetTransactionRepository(ctx).GetByIdempotencyKey(ctx, userID, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve duplicate idempotency key: %w", err)
	}
	return &DeltaResult{Balance: prior.BalanceAfter, TransactionID: prior.ID}, nil
}
