package ledger

import (
	"context"
	"errors"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
)

// WelcomeBonusGranter applies the one-time initial credit grant. The grant is
// an ordinary delta carrying the constant per-user idempotency key, so two
// simultaneous first accesses cannot produce two bonuses.
type WelcomeBonusGranter struct {
	applier     *DeltaApplier
	accountRepo persistence.AccountRepository
	logger      coreport.Logger
}

// NewWelcomeBonusGranter creates a new WelcomeBonusGranter
func NewWelcomeBonusGranter(
	applier *DeltaApplier,
	accountRepo persistence.AccountRepository,
	logger coreport.Logger,
) *WelcomeBonusGranter {
	return &WelcomeBonusGranter{
		applier:     applier,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Grant gives the fixed welcome bonus to a user who has no account yet.
// Calling it again is a no-op.
func (g *WelcomeBonusGranter) Grant(ctx context.Context, userID string) error {
	if userID == "" {
		return errs.ErrInvalidUserID
	}

	// Fast path: an existing account means the user already went through a
	// grant or a transaction, nothing to do.
	_, err := g.accountRepo.GetByUserID(ctx, userID)
	if err == nil {
		g.logger.Debug("Welcome bonus skipped, account already exists", map[string]any{
			"user_id": userID,
		})
		return nil
	}
	if !errors.Is(err, errs.ErrAccountNotFound) {
		return err
	}

	_, err = g.applier.Apply(
		ctx,
		userID,
		entity.WelcomeBonusAmount,
		string(entity.TypeGift),
		entity.WelcomeBonusDescription,
		entity.WelcomeBonusKey,
	)
	if err != nil {
		return err
	}

	g.logger.Info("Welcome bonus granted", map[string]any{
		"user_id": userID,
		"amount":  entity.WelcomeBonusAmount,
	})
	return nil
}
