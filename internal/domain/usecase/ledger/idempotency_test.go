package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	persistencemocks "github.com/loomapp/credit-ledger/mocks/port/persistence"
)

func TestIdempotencyHandler_CheckIdempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("should report not found for empty key without hitting the store", func(t *testing.T) {
		mockRepo := new(persistencemocks.MockTransactionRepository)
		handler := NewIdempotencyHandler(mockRepo)

		txn, found, err := handler.CheckIdempotency(ctx, "user-1", "")

		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, txn)
		mockRepo.AssertNotCalled(t, "GetByIdempotencyKey")
	})

	t.Run("should return recorded transaction for known key", func(t *testing.T) {
		mockRepo := new(persistencemocks.MockTransactionRepository)
		prior := &entity.Transaction{ID: "txn-1", UserID: "user-1", Amount: -40, BalanceAfter: 60}
		mockRepo.On("GetByIdempotencyKey", ctx, "user-1", "key-1").Return(prior, nil)

		handler := NewIdempotencyHandler(mockRepo)

		txn, found, err := handler.CheckIdempotency(ctx, "user-1", "key-1")

		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "txn-1", txn.ID)
		assert.Equal(t, int64(60), txn.BalanceAfter)
	})

	t.Run("should report not found for unknown key", func(t *testing.T) {
		mockRepo := new(persistencemocks.MockTransactionRepository)
		mockRepo.On("GetByIdempotencyKey", ctx, "user-1", "key-2").
			Return(nil, errs.ErrTransactionNotFound)

		handler := NewIdempotencyHandler(mockRepo)

		txn, found, err := handler.CheckIdempotency(ctx, "user-1", "key-2")

		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, txn)
	})

	t.Run("should propagate storage errors", func(t *testing.T) {
		mockRepo := new(persistencemocks.MockTransactionRepository)
		mockRepo.On("GetByIdempotencyKey", ctx, "user-1", "key-3").
			Return(nil, errs.ErrStorageUnavailable)

		handler := NewIdempotencyHandler(mockRepo)

		_, found, err := handler.CheckIdempotency(ctx, "user-1", "key-3")

		assert.False(t, found)
		assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
	})
}
