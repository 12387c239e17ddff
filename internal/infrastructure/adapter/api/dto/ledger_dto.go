package dto

// DeltaRequest represents the API request for applying a credit delta
type DeltaRequest struct {
	Amount         int64  `json:"amount" binding:"required"`
	Type           string `json:"type" binding:"required,oneof=earn spend gift expire"`
	Description    string `json:"description"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// DeltaResponse represents the API response for an applied credit delta
type DeltaResponse struct {
	TransactionID string `json:"transactionId"`
	UserID        string `json:"userId"`
	Success       bool   `json:"success"`
	Balance       int64  `json:"balance"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// WelcomeResponse represents the API response for the welcome bonus endpoint
type WelcomeResponse struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
}
