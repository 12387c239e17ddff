package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
)

// MockLedgerHoldRepository is a mock implementation of the persistence.LedgerHoldRepository interface
type MockLedgerHoldRepository struct {
	mock.Mock
}

func (m *MockLedgerHoldRepository) Place(ctx context.Context, hold *entity.LedgerHold) error {
	args := m.Called(ctx, hold)
	return args.Error(0)
}

func (m *MockLedgerHoldRepository) Get(ctx context.Context, userID string) (*entity.LedgerHold, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LedgerHold), args.Error(1)
}

func (m *MockLedgerHoldRepository) Release(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
