package model

import (
	"time"
)

// User mirrors the externally-owned users table. The auth service creates and
// deletes rows; the ledger only references them so cascade delete removes a
// user's account and transactions together.
type User struct {
	ID        string    `gorm:"primaryKey;size:64"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
