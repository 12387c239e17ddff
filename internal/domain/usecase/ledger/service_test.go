package ledger

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
)

func newServiceFixture() (*Service, *deltaFixture) {
	f := newDeltaFixture()
	svc := NewService(f.uow, f.holds, fixedTimeProvider(), relaxedLogger())
	return svc, f
}

func TestService_ApplyDelta(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject invalid request before touching the store", func(t *testing.T) {
		svc, f := newServiceFixture()

		resp, err := svc.ApplyDelta(ctx, "user-1", DeltaRequest{Amount: 0, Type: "earn"})

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.False(t, resp.Success)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should return prior result on the idempotency fast path", func(t *testing.T) {
		svc, f := newServiceFixture()

		prior := &entity.Transaction{ID: "txn-prior", UserID: "user-1", Amount: -40, BalanceAfter: 60}
		f.transactions.On("GetByIdempotencyKey", ctx, "user-1", "key-1").Return(prior, nil)

		resp, err := svc.ApplyDelta(ctx, "user-1", DeltaRequest{
			Amount:         -40,
			Type:           "spend",
			IdempotencyKey: "key-1",
		})

		assert.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, int64(60), resp.Balance)
		assert.Equal(t, "txn-prior", resp.TransactionID)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should apply fresh delta end to end", func(t *testing.T) {
		svc, f := newServiceFixture()

		f.transactions.On("GetByIdempotencyKey", ctx, "user-1", "key-1").
			Return(nil, errs.ErrTransactionNotFound)
		f.holds.On("Get", ctx, "user-1").Return(nil, nil)
		f.uow.On("Begin", ctx).Return(ctx, nil)
		f.uow.On("Commit", ctx).Return(nil)

		account := &entity.Account{ID: "acc-1", UserID: "user-1", Balance: 100}
		f.accounts.On("GetForUpdate", ctx, "user-1").Return(account, nil)
		f.accounts.On("UpdateBalance", ctx, mock.Anything).Return(nil)
		f.transactions.On("Create", ctx, mock.Anything).Return(nil)

		resp, err := svc.ApplyDelta(ctx, "user-1", DeltaRequest{
			Amount:         -40,
			Type:           "spend",
			Description:    "report",
			IdempotencyKey: "key-1",
		})

		assert.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, int64(60), resp.Balance)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("should map insufficient balance to a client error", func(t *testing.T) {
		svc, f := newServiceFixture()

		f.holds.On("Get", ctx, "user-1").Return(nil, nil)
		f.uow.On("Begin", ctx).Return(ctx, nil)
		f.uow.On("Rollback", ctx).Return(nil)

		account := &entity.Account{ID: "acc-1", UserID: "user-1", Balance: 10}
		f.accounts.On("GetForUpdate", ctx, "user-1").Return(account, nil)

		resp, err := svc.ApplyDelta(ctx, "user-1", DeltaRequest{Amount: -50, Type: "spend"})

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.False(t, resp.Success)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.NotEmpty(t, resp.ErrorMessage)
	})
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid amount", errs.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid type", errs.ErrInvalidTransactionType, http.StatusBadRequest},
		{"invalid cursor", errs.ErrInvalidCursor, http.StatusBadRequest},
		{"insufficient balance", errs.NewInsufficientBalanceError("u", -5, 1), http.StatusBadRequest},
		{"unknown user", errs.ErrUnknownUser, http.StatusNotFound},
		{"ledger held", errs.ErrLedgerHeld, http.StatusConflict},
		{"storage unavailable", errs.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"internal", errs.ErrInternalServer, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusForError(tt.err))
		})
	}
}
