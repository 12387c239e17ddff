package model

import (
	"time"
)

// Account represents the database model for credit accounts
type Account struct {
	ID        string    `gorm:"primaryKey;size:32"`
	UserID    string    `gorm:"uniqueIndex;not null;size:64"`
	Balance   int64     `gorm:"not null;check:balance >= 0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
