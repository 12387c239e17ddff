package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/model"
)

// UserRepository implements persistence.UserRepository over the
// externally-owned users table. Read-only: the auth service owns writes.
type UserRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Exists reports whether a user with the given ID exists
func (r *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Count(&count)
	if result.Error != nil {
		r.logger.Error("Failed to check user existence", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	return count > 0, nil
}

// ListIDs returns all known user IDs for the reconciler sweep
func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).Model(&model.User{}).Pluck("id", &ids)
	if result.Error != nil {
		r.logger.Error("Failed to list user IDs", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, result.Error.Error())
	}

	return ids, nil
}
