package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/model"
)

// AccountRepository implements persistence.AccountRepository using GORM
type AccountRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *AccountRepository) modelToEntity(m *model.Account) *entity.Account {
	return &entity.Account{
		ID:        m.ID,
		UserID:    m.UserID,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *AccountRepository) handleDatabaseError(operation string, err error, userID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrAccountNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrAccountExists
	}
	if r.errorClassifier.IsForeignKeyError(err) {
		return errs.ErrUnknownUser
	}

	return fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, err.Error())
}

// GetByUserID retrieves the account owned by the given user
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*entity.Account, error) {
	var accountModel model.Account
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&accountModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting account", result.Error, userID)
	}

	return r.modelToEntity(&accountModel), nil
}

// GetForUpdate retrieves the account taking an exclusive row lock. Must run
// inside a unit of work; the lock is released on commit or rollback.
func (r *AccountRepository) GetForUpdate(ctx context.Context, userID string) (*entity.Account, error) {
	r.logger.Debug("Locking account row", map[string]any{
		"user_id": userID,
	})

	var accountModel model.Account
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&accountModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking account", result.Error, userID)
	}

	return r.modelToEntity(&accountModel), nil
}

// Create inserts a new account row
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountModel := model.Account{
		ID:        account.ID,
		UserID:    account.UserID,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&accountModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating account", result.Error, account.UserID)
	}

	r.logger.Debug("Account row created", map[string]any{
		"user_id":    account.UserID,
		"account_id": account.ID,
	})
	return nil
}

// UpdateBalance persists the account's balance and updated_at
func (r *AccountRepository) UpdateBalance(ctx context.Context, account *entity.Account) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("user_id = ?", account.UserID).
		Updates(map[string]interface{}{
			"balance":    account.Balance,
			"updated_at": account.UpdatedAt,
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating account balance", result.Error, account.UserID)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Account not found during balance update", map[string]any{
			"user_id": account.UserID,
		})
		return errs.ErrAccountNotFound
	}

	return nil
}
