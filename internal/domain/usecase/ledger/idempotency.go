package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
)

// IdempotencyHandler resolves retried deltas to their original result.
// The unique (user_id, idempotency_key) constraint is the authority; this
// handler is a fast path that avoids taking the row lock for known retries.
type IdempotencyHandler struct {
	transactionRepo persistence.TransactionRepository
}

// NewIdempotencyHandler creates a new IdempotencyHandler
func NewIdempotencyHandler(transactionRepo persistence.TransactionRepository) *IdempotencyHandler {
	return &IdempotencyHandler{
		transactionRepo: transactionRepo,
	}
}

// CheckIdempotency looks up a previously recorded transaction for the
// (userID, key) pair. Returns the transaction, whether it was found, and any
// error. An empty key always reports not found.
func (h *IdempotencyHandler) CheckIdempotency(
	ctx context.Context,
	userID, key string,
) (*entity.Transaction, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	txn, err := h.transactionRepo.GetByIdempotencyKey(ctx, userID, key)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to check idempotency: %w", err)
	}

	return txn, true, nil
}
