package model

import (
	"time"
)

// LedgerHold represents a per-user write hold placed by the reconciler
type LedgerHold struct {
	UserID    string    `gorm:"primaryKey;size:64"`
	Reason    string    `gorm:"type:text;not null"`
	Balance   int64     `gorm:"not null"`
	TxnSum    int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for LedgerHold
func (LedgerHold) TableName() string {
	return "ledger_holds"
}
