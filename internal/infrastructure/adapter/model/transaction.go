package model

import (
	"time"
)

// Transaction represents the database model for ledger transactions. Rows are
// append-only: never updated or deleted under normal operation. The partial
// unique index on (user_id, idempotency_key) is the idempotency authority;
// rows without a key stay out of the index.
type Transaction struct {
	ID             string    `gorm:"primaryKey;size:32"`
	UserID         string    `gorm:"not null;size:64;index:idx_transactions_user_created,priority:1;uniqueIndex:idx_transactions_user_idem,priority:1"`
	Type           string    `gorm:"not null;size:16"`
	Amount         int64     `gorm:"not null"`
	Description    string    `gorm:"type:text"`
	IdempotencyKey *string   `gorm:"size:255;uniqueIndex:idx_transactions_user_idem,priority:2"`
	BalanceAfter   int64     `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null;index:idx_transactions_user_created,priority:2,sort:desc"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
