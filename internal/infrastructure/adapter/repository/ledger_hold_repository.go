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

// LedgerHoldRepository implements persistence.LedgerHoldRepository using GORM
type LedgerHoldRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewLedgerHoldRepository creates a new LedgerHoldRepository instance
func NewLedgerHoldRepository(db *gorm.DB, logger coreport.Logger) *LedgerHoldRepository {
	return &LedgerHoldRepository{
		db:     db,
		logger: logger,
	}
}

// Place records a hold for a user. The first recorded mismatch wins; placing
// a hold for an already-held user is a no-op.
func (r *LedgerHoldRepository) Place(ctx context.Context, hold *entity.LedgerHold) error {
	holdModel := model.LedgerHold{
		UserID:    hold.UserID,
		Reason:    hold.Reason,
		Balance:   hold.Balance,
		TxnSum:    hold.TxnSum,
		CreatedAt: hold.CreatedAt,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&holdModel)
	if result.Error != nil {
		r.logger.Error("Failed to place ledger hold", map[string]any{
			"user_id": hold.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	r.logger.Warn("Ledger hold placed", map[string]any{
		"user_id": hold.UserID,
		"reason":  hold.Reason,
	})
	return nil
}

// Get retrieves the hold for a user; returns (nil, nil) when no hold exists
func (r *LedgerHoldRepository) Get(ctx context.Context, userID string) (*entity.LedgerHold, error) {
	var holdModel model.LedgerHold
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&holdModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get ledger hold", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	return &entity.LedgerHold{
		UserID:    holdModel.UserID,
		Reason:    holdModel.Reason,
		Balance:   holdModel.Balance,
		TxnSum:    holdModel.TxnSum,
		CreatedAt: holdModel.CreatedAt,
	}, nil
}

// Release removes the hold for a user after operator intervention
func (r *LedgerHoldRepository) Release(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.LedgerHold{})
	if result.Error != nil {
		r.logger.Error("Failed to release ledger hold", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Ledger hold released", map[string]any{
			"user_id": userID,
		})
	}
	return nil
}
