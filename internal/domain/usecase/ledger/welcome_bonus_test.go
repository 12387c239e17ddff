package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
)

func TestWelcomeBonusGranter_Grant(t *testing.T) {
	ctx := context.Background()

	t.Run("should grant fixed bonus to new user", func(t *testing.T) {
		f := newDeltaFixture()
		granter := NewWelcomeBonusGranter(f.applier, f.accounts, relaxedLogger())

		f.accounts.On("GetByUserID", ctx, "user-1").Return(nil, errs.ErrAccountNotFound)
		f.holds.On("Get", ctx, "user-1").Return(nil, nil)
		f.uow.On("Begin", ctx).Return(ctx, nil)
		f.uow.On("Commit", ctx).Return(nil)

		f.accounts.On("GetForUpdate", ctx, "user-1").Return(nil, errs.ErrAccountNotFound)
		f.users.On("Exists", ctx, "user-1").Return(true, nil)
		f.accounts.On("Create", ctx, mock.Anything).Return(nil)
		f.transactions.On("GetByIdempotencyKey", ctx, "user-1", entity.WelcomeBonusKey).
			Return(nil, errs.ErrTransactionNotFound)
		f.accounts.On("UpdateBalance", ctx, mock.MatchedBy(func(a *entity.Account) bool {
			return a.Balance == entity.WelcomeBonusAmount
		})).Return(nil)
		f.transactions.On("Create", ctx, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Type == entity.TypeGift &&
				txn.Amount == entity.WelcomeBonusAmount &&
				txn.IdempotencyKey == entity.WelcomeBonusKey &&
				txn.Description == entity.WelcomeBonusDescription
		})).Return(nil)

		err := granter.Grant(ctx, "user-1")

		assert.NoError(t, err)
		f.transactions.AssertExpectations(t)
	})

	t.Run("should skip grant when account already exists", func(t *testing.T) {
		f := newDeltaFixture()
		granter := NewWelcomeBonusGranter(f.applier, f.accounts, relaxedLogger())

		existing := &entity.Account{ID: "acc-1", UserID: "user-1", Balance: 40}
		f.accounts.On("GetByUserID", ctx, "user-1").Return(existing, nil)

		err := granter.Grant(ctx, "user-1")

		assert.NoError(t, err)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should resolve concurrent double grant to a single bonus", func(t *testing.T) {
		f := newDeltaFixture()
		granter := NewWelcomeBonusGranter(f.applier, f.accounts, relaxedLogger())

		// The account row is not visible yet, but the racing grant commits
		// first; the unique key resolves to the winner's transaction.
		f.accounts.On("GetByUserID", ctx, "user-1").Return(nil, errs.ErrAccountNotFound)
		f.holds.On("Get", ctx, "user-1").Return(nil, nil)
		f.uow.On("Begin", ctx).Return(ctx, nil)
		f.uow.On("Rollback", ctx).Return(nil)

		winner := &entity.Account{ID: "acc-1", UserID: "user-1", Balance: entity.WelcomeBonusAmount}
		f.accounts.On("GetForUpdate", ctx, "user-1").Return(winner, nil)
		prior := &entity.Transaction{
			ID:           "txn-bonus",
			UserID:       "user-1",
			Amount:       entity.WelcomeBonusAmount,
			BalanceAfter: entity.WelcomeBonusAmount,
		}
		f.transactions.On("GetByIdempotencyKey", ctx, "user-1", entity.WelcomeBonusKey).
			Return(prior, nil)

		err := granter.Grant(ctx, "user-1")

		assert.NoError(t, err)
		f.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should reject empty user ID", func(t *testing.T) {
		f := newDeltaFixture()
		granter := NewWelcomeBonusGranter(f.applier, f.accounts, relaxedLogger())

		err := granter.Grant(ctx, "")

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("should reject grant for unknown user", func(t *testing.T) {
		f := newDeltaFixture()
		granter := NewWelcomeBonusGranter(f.applier, f.accounts, relaxedLogger())

		f.accounts.On("GetByUserID", ctx, "ghost").Return(nil, errs.ErrAccountNotFound)
		f.holds.On("Get", ctx, "ghost").Return(nil, nil)
		f.uow.On("Begin", ctx).Return(ctx, nil)
		f.uow.On("Rollback", ctx).Return(nil)
		f.accounts.On("GetForUpdate", ctx, "ghost").Return(nil, errs.ErrAccountNotFound)
		f.users.On("Exists", ctx, "ghost").Return(false, nil)

		err := granter.Grant(ctx, "ghost")

		assert.ErrorIs(t, err, errs.ErrUnknownUser)
	})
}
