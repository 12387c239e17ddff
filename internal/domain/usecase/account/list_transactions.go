package account

import (
	"context"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
)

// HistoryPage is one page of a user's transaction history, newest-first
type HistoryPage struct {
	Transactions []*entity.Transaction
	// NextCursor restarts the listing after the last row of this page.
	// Empty when the page was not full.
	NextCursor string
}

// ListTransactions returns up to limit transactions ordered newest-first,
// ties broken by id descending. New rows inserted between page fetches appear
// only at the head, never inside already-fetched pages.
func (u *UseCase) ListTransactions(ctx context.Context, userID string, limit int, cursor string) (*HistoryPage, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if limit <= 0 {
		return nil, errs.ErrInvalidLimit
	}

	pos, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	txns, err := u.transactionRepo.ListByUser(ctx, userID, limit, pos)
	if err != nil {
		u.logger.Error("Failed to list transactions", map[string]any{
			"user_id": userID,
			"limit":   limit,
			"error":   err.Error(),
		})
		return nil, err
	}

	page := &HistoryPage{Transactions: txns}
	if len(txns) == limit {
		page.NextCursor = EncodeCursor(txns[len(txns)-1])
	}
	return page, nil
}
