package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
)

// Reconciler periodically verifies the ledger invariant: every account's
// cached balance must equal the sum of its transaction amounts. A mismatch is
// an internal defect; the reconciler never guesses a correction, it records a
// hold so further writes for that user fail until an operator intervenes.
type Reconciler struct {
	uow          persistence.UnitOfWork
	userRepo     persistence.UserRepository
	holdRepo     persistence.LedgerHoldRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	interval     time.Duration
}

// NewReconciler creates a new Reconciler
func NewReconciler(
	uow persistence.UnitOfWork,
	userRepo persistence.UserRepository,
	holdRepo persistence.LedgerHoldRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	interval time.Duration,
) *Reconciler {
	return &Reconciler{
		uow:          uow,
		userRepo:     userRepo,
		holdRepo:     holdRepo,
		timeProvider: timeProvider,
		logger:       logger,
		interval:     interval,
	}
}

// CheckUser verifies the invariant for a single user. Users without an
// account are skipped. On mismatch a hold is placed and an
// InvariantViolationError returned.
func (r *Reconciler) CheckUser(ctx context.Context, userID string) error {
	balance, sum, err := r.snapshotUser(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrAccountNotFound) {
			return nil
		}
		return err
	}

	if balance == sum {
		return nil
	}

	violation := errs.NewInvariantViolationError(userID, balance, sum)
	r.logger.Error("Ledger invariant violated, halting writes for user", map[string]any{
		"user_id":         userID,
		"balance":         balance,
		"transaction_sum": sum,
	})

	hold := &entity.LedgerHold{
		UserID:    userID,
		Reason:    violation.Error(),
		Balance:   balance,
		TxnSum:    sum,
		CreatedAt: r.timeProvider.Now(),
	}
	if err := r.holdRepo.Place(ctx, hold); err != nil {
		r.logger.Error("Failed to place ledger hold", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}

	return violation
}

// snapshotUser reads the balance and the transaction sum under the account's
// row lock, so no delta can commit between the two reads. Without the lock a
// concurrent apply landing mid-check makes a healthy ledger look drifted.
// The transaction is read-only and always rolled back.
func (r *Reconciler) snapshotUser(ctx context.Context, userID string) (int64, int64, error) {
	txCtx, err := r.uow.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, err.Error())
	}
	defer func() {
		if rbErr := r.uow.Rollback(txCtx); rbErr != nil {
			r.logger.Error("Failed to rollback reconciliation snapshot", map[string]any{
				"user_id": userID,
				"error":   rbErr.Error(),
			})
		}
	}()

	account, err := r.uow.GetAccountRepository(txCtx).GetForUpdate(txCtx, userID)
	if err != nil {
		return 0, 0, err
	}

	sum, err := r.uow.GetTransactionRepository(txCtx).SumAmounts(txCtx, userID)
	if err != nil {
		return 0, 0, err
	}

	return account.Balance, sum, nil
}

// Sweep checks every known user once. Individual violations are recorded as
// holds and do not abort the sweep.
func (r *Reconciler) Sweep(ctx context.Context) error {
	userIDs, err := r.userRepo.ListIDs(ctx)
	if err != nil {
		return err
	}

	var violations int
	for _, userID := range userIDs {
		if err := r.CheckUser(ctx, userID); err != nil {
			if errors.Is(err, errs.ErrInvariantViolation) {
				violations++
				continue
			}
			return err
		}
	}

	r.logger.Info("Reconciliation sweep completed", map[string]any{
		"users_checked": len(userIDs),
		"violations":    violations,
	})
	return nil
}

// Run sweeps on the configured interval until the context is canceled
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("Reconciler started", map[string]any{
		"interval": r.interval.String(),
	})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reconciler stopped", nil)
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Error("Reconciliation sweep failed", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}
}
