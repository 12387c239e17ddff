package entity

import (
	"fmt"
	"time"

	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
)

// TransactionType classifies a balance-changing event. The tag is for display
// and reporting only; the sign of Amount decides credit vs debit.
type TransactionType string

// Recognized transaction types
const (
	TypeEarn   TransactionType = "earn"
	TypeSpend  TransactionType = "spend"
	TypeGift   TransactionType = "gift"
	TypeExpire TransactionType = "expire"
)

// Welcome bonus constants, applied once per user on first access
const (
	WelcomeBonusAmount      int64 = 100
	WelcomeBonusKey               = "welcome-bonus"
	WelcomeBonusDescription       = "Welcome bonus credits"
)

// Transaction is one immutable row of the append-only ledger. BalanceAfter
// captures the balance the apply committed, so a retried delta can return the
// original result.
type Transaction struct {
	ID             string
	UserID         string
	Type           TransactionType
	Amount         int64
	Description    string
	IdempotencyKey string
	BalanceAfter   int64
	CreatedAt      time.Time
}

// NewTransaction creates a new transaction with basic validation
func NewTransaction(
	id string,
	userID string,
	txnType string,
	amount int64,
	description string,
	idempotencyKey string,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if amount == 0 {
		return nil, errs.ErrInvalidAmount
	}
	if !IsValidTransactionType(txnType) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, txnType)
	}

	return &Transaction{
		ID:             id,
		UserID:         userID,
		Type:           TransactionType(txnType),
		Amount:         amount,
		Description:    description,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      timeProvider.Now(),
	}, nil
}

// RecordResult captures the balance after this transaction was applied
func (t *Transaction) RecordResult(balanceAfter int64) {
	t.BalanceAfter = balanceAfter
}

// IsCredit returns true if this transaction increases the user's balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit returns true if this transaction decreases the user's balance
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

// IsValidTransactionType validates if the type tag is one of the recognized values
func IsValidTransactionType(txnType string) bool {
	switch TransactionType(txnType) {
	case TypeEarn, TypeSpend, TypeGift, TypeExpire:
		return true
	default:
		return false
	}
}
