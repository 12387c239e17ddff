package dto

import "time"

// HistoryItem represents a single transaction in a user's history
type HistoryItem struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	Description  string    `json:"description,omitempty"`
	BalanceAfter int64     `json:"balanceAfter"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HistoryResponse represents one page of a user's transaction history
type HistoryResponse struct {
	Transactions []HistoryItem `json:"transactions"`
	NextCursor   string        `json:"nextCursor,omitempty"`
}
