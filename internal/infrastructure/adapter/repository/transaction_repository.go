package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/model"
)

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *TransactionRepository) entityToModel(txn *entity.Transaction) model.Transaction {
	var key *string
	if txn.IdempotencyKey != "" {
		k := txn.IdempotencyKey
		key = &k
	}
	return model.Transaction{
		ID:             txn.ID,
		UserID:         txn.UserID,
		Type:           string(txn.Type),
		Amount:         txn.Amount,
		Description:    txn.Description,
		IdempotencyKey: key,
		BalanceAfter:   txn.BalanceAfter,
		CreatedAt:      txn.CreatedAt,
	}
}

func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	var key string
	if m.IdempotencyKey != nil {
		key = *m.IdempotencyKey
	}
	return &entity.Transaction{
		ID:             m.ID,
		UserID:         m.UserID,
		Type:           entity.TransactionType(m.Type),
		Amount:         m.Amount,
		Description:    m.Description,
		IdempotencyKey: key,
		BalanceAfter:   m.BalanceAfter,
		CreatedAt:      m.CreatedAt,
	}
}

// Create appends a new transaction row
func (r *TransactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	transactionModel := r.entityToModel(txn)

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate idempotency key on insert", map[string]any{
				"user_id":         txn.UserID,
				"idempotency_key": txn.IdempotencyKey,
			})
			return errs.ErrDuplicateIdempotencyKey
		}
		if r.errorClassifier.IsForeignKeyError(result.Error) {
			return errs.ErrUnknownUser
		}

		r.logger.Error("Failed to create transaction", map[string]any{
			"transaction_id": txn.ID,
			"user_id":        txn.UserID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	return nil
}

// GetByIdempotencyKey retrieves the transaction recorded for (userID, key)
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to look up idempotency key", map[string]any{
			"user_id":         userID,
			"idempotency_key": key,
			"error":           result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel), nil
}

// ListByUser returns up to limit transactions newest-first starting after the
// cursor position. Keyset pagination on (created_at, id) keeps pages stable
// while new rows arrive at the head.
func (r *TransactionRepository) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
	cursor *persistence.HistoryCursor,
) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var models []model.Transaction
	if result := query.Find(&models); result.Error != nil {
		r.logger.Error("Failed to list transactions", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	txns := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		txns = append(txns, r.modelToEntity(&models[i]))
	}
	return txns, nil
}

// SumAmounts returns the sum of amounts over all of a user's transactions
func (r *TransactionRepository) SumAmounts(ctx context.Context, userID string) (int64, error) {
	var sum int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum)
	if result.Error != nil {
		r.logger.Error("Failed to sum transaction amounts", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	return sum, nil
}
