package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
	persistencemocks "github.com/loomapp/credit-ledger/mocks/port/persistence"
)

func historyRows(n int, newest time.Time) []*entity.Transaction {
	rows := make([]*entity.Transaction, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &entity.Transaction{
			ID:        "txn-" + string(rune('a'+i)),
			UserID:    "user-1",
			Amount:    10,
			CreatedAt: newest.Add(-time.Duration(i) * time.Minute),
		})
	}
	return rows
}

func TestUseCase_ListTransactions(t *testing.T) {
	ctx := context.Background()
	newest := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should return page with next cursor when full", func(t *testing.T) {
		mockAccounts := new(persistencemocks.MockAccountRepository)
		mockTransactions := new(persistencemocks.MockTransactionRepository)

		rows := historyRows(3, newest)
		mockTransactions.On("ListByUser", ctx, "user-1", 3, (*persistence.HistoryCursor)(nil)).
			Return(rows, nil)

		useCase := NewUseCase(mockAccounts, mockTransactions, relaxedLogger())

		page, err := useCase.ListTransactions(ctx, "user-1", 3, "")

		assert.NoError(t, err)
		assert.Len(t, page.Transactions, 3)
		assert.NotEmpty(t, page.NextCursor)

		// The cursor restarts after the last row of this page
		pos, err := DecodeCursor(page.NextCursor)
		assert.NoError(t, err)
		assert.Equal(t, rows[2].ID, pos.ID)
		assert.True(t, pos.CreatedAt.Equal(rows[2].CreatedAt))
	})

	t.Run("should omit next cursor on short page", func(t *testing.T) {
		mockAccounts := new(persistencemocks.MockAccountRepository)
		mockTransactions := new(persistencemocks.MockTransactionRepository)

		mockTransactions.On("ListByUser", ctx, "user-1", 10, (*persistence.HistoryCursor)(nil)).
			Return(historyRows(2, newest), nil)

		useCase := NewUseCase(mockAccounts, mockTransactions, relaxedLogger())

		page, err := useCase.ListTransactions(ctx, "user-1", 10, "")

		assert.NoError(t, err)
		assert.Len(t, page.Transactions, 2)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("should pass decoded cursor to the repository", func(t *testing.T) {
		mockAccounts := new(persistencemocks.MockAccountRepository)
		mockTransactions := new(persistencemocks.MockTransactionRepository)

		last := &entity.Transaction{ID: "txn-last", CreatedAt: newest}
		cursor := EncodeCursor(last)

		mockTransactions.On("ListByUser", ctx, "user-1", 5, mock.MatchedBy(func(pos *persistence.HistoryCursor) bool {
			return pos != nil && pos.ID == "txn-last" && pos.CreatedAt.Equal(newest)
		})).Return([]*entity.Transaction{}, nil)

		useCase := NewUseCase(mockAccounts, mockTransactions, relaxedLogger())

		page, err := useCase.ListTransactions(ctx, "user-1", 5, cursor)

		assert.NoError(t, err)
		assert.Empty(t, page.Transactions)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("should reject invalid cursor", func(t *testing.T) {
		mockAccounts := new(persistencemocks.MockAccountRepository)
		mockTransactions := new(persistencemocks.MockTransactionRepository)

		useCase := NewUseCase(mockAccounts, mockTransactions, relaxedLogger())

		_, err := useCase.ListTransactions(ctx, "user-1", 5, "not base64!!")

		assert.ErrorIs(t, err, errs.ErrInvalidCursor)
		mockTransactions.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject non-positive limit", func(t *testing.T) {
		mockAccounts := new(persistencemocks.MockAccountRepository)
		mockTransactions := new(persistencemocks.MockTransactionRepository)

		useCase := NewUseCase(mockAccounts, mockTransactions, relaxedLogger())

		_, err := useCase.ListTransactions(ctx, "user-1", 0, "")

		assert.ErrorIs(t, err, errs.ErrInvalidLimit)
	})
}
