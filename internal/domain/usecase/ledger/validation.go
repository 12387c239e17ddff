package ledger

import (
	"fmt"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
)

// DeltaValidator provides validation for delta requests
type DeltaValidator struct{}

// NewDeltaValidator creates a new DeltaValidator
func NewDeltaValidator() *DeltaValidator {
	return &DeltaValidator{}
}

// ValidateDelta validates all delta fields. Zero amounts and unrecognized
// type tags are caller errors, never silently accepted.
func (v *DeltaValidator) ValidateDelta(userID string, amount int64, txnType string) error {
	if userID == "" {
		return errs.ErrInvalidUserID
	}
	if amount == 0 {
		return errs.ErrInvalidAmount
	}
	if txnType == "" {
		return errs.ErrInvalidTransactionType
	}
	if !entity.IsValidTransactionType(txnType) {
		return fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, txnType)
	}
	return nil
}

// ValidateHistoryQuery validates a pagination request
func (v *DeltaValidator) ValidateHistoryQuery(userID string, limit int) error {
	if userID == "" {
		return errs.ErrInvalidUserID
	}
	if limit <= 0 {
		return errs.ErrInvalidLimit
	}
	return nil
}
