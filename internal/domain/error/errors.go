package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance    = 4001
	CodeInvalidAmount          = 4002
	CodeInvalidTransactionType = 4003
	CodeInvalidUserID          = 4004
	CodeInvalidCursor          = 4005
	CodeInvalidRequest         = 4006
	CodeUnknownUser            = 4040
	CodeLedgerHeld             = 4230

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeStorageUnavailable = 5030
	CodeInvariantViolation = 5090
)

// Base error types
var (
	// ErrInsufficientBalance is returned when a debit would drive the balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned when the delta amount is zero
	ErrInvalidAmount = errors.New("amount must be a non-zero integer")

	// ErrInvalidTransactionType is returned when the type tag is not recognized
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidUserID is returned when the user ID is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidCursor is returned when a pagination cursor cannot be decoded
	ErrInvalidCursor = errors.New("invalid pagination cursor")

	// ErrInvalidLimit is returned when a page size is zero or negative
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownUser is returned when the referenced user does not exist in the
	// external user store
	ErrUnknownUser = errors.New("unknown user")

	// ErrAccountNotFound is returned when no account row exists for a user yet
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAccountExists is returned when a lazy account creation loses the race
	// against a concurrent first grant for the same user
	ErrAccountExists = errors.New("account already exists for user")

	// ErrDuplicateIdempotencyKey is returned by the store when an insert hits the
	// (user_id, idempotency_key) unique constraint. Callers never see it: the
	// ledger resolves it to the previously committed result.
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")

	// ErrLedgerHeld is returned when writes for a user are halted by a ledger hold
	ErrLedgerHeld = errors.New("ledger writes are held for this user")

	// ErrStorageUnavailable is returned when the durable store is unreachable;
	// the operation is retryable with the same idempotency key
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvariantViolation is returned when the cached balance disagrees with
	// the sum of transactions. This is an internal defect, never auto-corrected.
	ErrInvariantViolation = errors.New("ledger invariant violation")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidTransactionType):
		return CodeInvalidTransactionType
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidCursor), errors.Is(err, ErrInvalidLimit):
		return CodeInvalidCursor
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrUnknownUser):
		return CodeUnknownUser
	case errors.Is(err, ErrLedgerHeld):
		return CodeLedgerHeld
	case errors.Is(err, ErrStorageUnavailable):
		return CodeStorageUnavailable
	case errors.Is(err, ErrInvariantViolation):
		return CodeInvariantViolation
	default:
		return CodeInternalServer
	}
}

// InsufficientBalanceError provides detailed error information for a rejected debit
type InsufficientBalanceError struct {
	UserID    string
	Requested int64
	Balance   int64
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %s: requested %d, available %d",
		e.UserID, e.Requested, e.Balance)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_balance",
		"user_id":    e.UserID,
		"requested":  e.Requested,
		"balance":    e.Balance,
		"error_code": CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID string, requested, balance int64) error {
	return &InsufficientBalanceError{
		UserID:    userID,
		Requested: requested,
		Balance:   balance,
	}
}

// InvariantViolationError carries the detected balance-vs-sum mismatch
type InvariantViolationError struct {
	UserID  string
	Balance int64
	TxnSum  int64
}

// Error implements the error interface
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("ledger invariant violated for user %s: balance %d, transaction sum %d",
		e.UserID, e.Balance, e.TxnSum)
}

// Is checks if the target error is an ErrInvariantViolation
func (e *InvariantViolationError) Is(target error) bool {
	return target == ErrInvariantViolation
}

// LogFields returns a map of fields for structured logging
func (e *InvariantViolationError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "invariant_violation",
		"user_id":         e.UserID,
		"balance":         e.Balance,
		"transaction_sum": e.TxnSum,
		"error_code":      CodeInvariantViolation,
	}
}

// NewInvariantViolationError creates a new detailed invariant violation error
func NewInvariantViolationError(userID string, balance, txnSum int64) error {
	return &InvariantViolationError{
		UserID:  userID,
		Balance: balance,
		TxnSum:  txnSum,
	}
}

// DeltaError represents an error raised while applying a balance delta
type DeltaError struct {
	UserID         string
	Amount         int64
	Type           string
	IdempotencyKey string
	Reason         string
	Err            error
}

// Error implements the error interface for DeltaError
func (e *DeltaError) Error() string {
	return fmt.Sprintf("delta failed for user %s (amount: %d, type: %s): %s - %v",
		e.UserID, e.Amount, e.Type, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *DeltaError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *DeltaError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "delta_error",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"type":            e.Type,
		"idempotency_key": e.IdempotencyKey,
		"reason":          e.Reason,
		"error":           e.Err.Error(),
		"error_code":      ErrorCode(e.Err),
	}
}

// NewDeltaError creates a detailed delta error
func NewDeltaError(userID string, amount int64, txnType, idempotencyKey, reason string, err error) error {
	return &DeltaError{
		UserID:         userID,
		Amount:         amount,
		Type:           txnType,
		IdempotencyKey: idempotencyKey,
		Reason:         reason,
		Err:            err,
	}
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsUnknownUserError checks if the error refers to a missing external user
func IsUnknownUserError(err error) bool {
	return errors.Is(err, ErrUnknownUser)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, ErrTransactionNotFound)
}

// IsValidationError checks if the error is a caller validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidTransactionType) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidCursor) ||
		errors.Is(err, ErrInvalidLimit) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsLedgerHeldError checks if the error is due to a ledger hold
func IsLedgerHeldError(err error) bool {
	return errors.Is(err, ErrLedgerHeld)
}

// IsStorageUnavailableError checks if the error is a transient storage failure
func IsStorageUnavailableError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
