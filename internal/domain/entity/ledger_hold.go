package entity

import "time"

// LedgerHold halts further writes for a user after the reconciler detects a
// balance-vs-transaction-sum mismatch. Holds are cleared by an operator, never
// automatically.
type LedgerHold struct {
	UserID    string
	Reason    string
	Balance   int64
	TxnSum    int64
	CreatedAt time.Time
}
