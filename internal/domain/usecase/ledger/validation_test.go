package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/loomapp/credit-ledger/internal/domain/error"
)

func TestDeltaValidator_ValidateDelta(t *testing.T) {
	validator := NewDeltaValidator()

	t.Run("should accept valid delta", func(t *testing.T) {
		assert.NoError(t, validator.ValidateDelta("user-1", -50, "spend"))
		assert.NoError(t, validator.ValidateDelta("user-1", 10, "earn"))
	})

	t.Run("should reject empty user ID", func(t *testing.T) {
		err := validator.ValidateDelta("", 10, "earn")
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("should reject zero amount", func(t *testing.T) {
		err := validator.ValidateDelta("user-1", 0, "earn")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should reject missing type", func(t *testing.T) {
		err := validator.ValidateDelta("user-1", 10, "")
		assert.ErrorIs(t, err, errs.ErrInvalidTransactionType)
	})

	t.Run("should reject unknown type", func(t *testing.T) {
		err := validator.ValidateDelta("user-1", 10, "refund")
		assert.ErrorIs(t, err, errs.ErrInvalidTransactionType)
	})
}

func TestDeltaValidator_ValidateHistoryQuery(t *testing.T) {
	validator := NewDeltaValidator()

	assert.NoError(t, validator.ValidateHistoryQuery("user-1", 20))
	assert.ErrorIs(t, validator.ValidateHistoryQuery("", 20), errs.ErrInvalidUserID)
	assert.ErrorIs(t, validator.ValidateHistoryQuery("user-1", 0), errs.ErrInvalidLimit)
	assert.ErrorIs(t, validator.ValidateHistoryQuery("user-1", -5), errs.ErrInvalidLimit)
}
