package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	"github.com/loomapp/credit-ledger/mocks/port/core"
)

func TestNewAccount(t *testing.T) {
	fixedTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should create account with zero balance", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)

		account, err := NewAccount("acc-1", "user-1", mockTimeProvider)

		assert.NoError(t, err)
		assert.Equal(t, "acc-1", account.ID)
		assert.Equal(t, "user-1", account.UserID)
		assert.Equal(t, int64(0), account.Balance)
		assert.Equal(t, fixedTime, account.CreatedAt)
		assert.Equal(t, fixedTime, account.UpdatedAt)
	})

	t.Run("should reject empty user ID", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		account, err := NewAccount("acc-1", "", mockTimeProvider)

		assert.Nil(t, account)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestAccount_Apply(t *testing.T) {
	fixedTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	laterTime := fixedTime.Add(time.Minute)

	t.Run("should add credit to balance", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(laterTime)

		account := &Account{ID: "acc-1", UserID: "user-1", Balance: 100, UpdatedAt: fixedTime}

		err := account.Apply(50, mockTimeProvider)

		assert.NoError(t, err)
		assert.Equal(t, int64(150), account.Balance)
		assert.Equal(t, laterTime, account.UpdatedAt)
	})

	t.Run("should subtract debit from balance", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(laterTime)

		account := &Account{ID: "acc-1", UserID: "user-1", Balance: 100}

		err := account.Apply(-100, mockTimeProvider)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), account.Balance)
	})

	t.Run("should reject debit exceeding balance without mutating", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		account := &Account{ID: "acc-1", UserID: "user-1", Balance: 30, UpdatedAt: fixedTime}

		err := account.Apply(-31, mockTimeProvider)

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, int64(30), account.Balance)
		assert.Equal(t, fixedTime, account.UpdatedAt)

		var insufficientErr *errs.InsufficientBalanceError
		assert.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, "user-1", insufficientErr.UserID)
		assert.Equal(t, int64(-31), insufficientErr.Requested)
		assert.Equal(t, int64(30), insufficientErr.Balance)
	})
}
