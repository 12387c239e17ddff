package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerr "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	accountUseCase "github.com/loomapp/credit-ledger/internal/domain/usecase/account"
	ledgerUseCase "github.com/loomapp/credit-ledger/internal/domain/usecase/ledger"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/middleware"
)

// LedgerHandler handles the write side of the ledger API
type LedgerHandler struct {
	ledgerService  *ledgerUseCase.Service
	accountService *accountUseCase.UseCase
	logger         coreport.Logger
}

// NewLedgerHandler creates a new ledger handler instance
func NewLedgerHandler(
	ledgerService *ledgerUseCase.Service,
	accountService *accountUseCase.UseCase,
	logger coreport.Logger,
) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:  ledgerService,
		accountService: accountService,
		logger:         logger,
	}
}

// ApplyDelta handles the POST /api/v1/credits/transactions endpoint
func (h *LedgerHandler) ApplyDelta(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Authentication required",
		})
		return
	}

	var req dto.DeltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid delta request format", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	// The header wins over the body field when both are present
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	deltaReq := ledgerUseCase.DeltaRequest{
		Amount:         req.Amount,
		Type:           req.Type,
		Description:    req.Description,
		IdempotencyKey: req.IdempotencyKey,
	}

	result, err := h.ledgerService.ApplyDelta(c.Request.Context(), userID, deltaReq)
	if err != nil {
		c.JSON(result.StatusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: result.ErrorMessage,
		})
		return
	}

	c.JSON(http.StatusOK, dto.DeltaResponse{
		TransactionID: result.TransactionID,
		UserID:        userID,
		Success:       result.Success,
		Balance:       result.Balance,
	})
}

// GrantWelcomeBonus handles the POST /api/v1/credits/welcome endpoint
func (h *LedgerHandler) GrantWelcomeBonus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Authentication required",
		})
		return
	}

	if err := h.ledgerService.GrantWelcomeBonus(c.Request.Context(), userID); err != nil {
		c.JSON(ledgerUseCase.StatusForError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	balance, err := h.accountService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(ledgerUseCase.StatusForError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.WelcomeResponse{
		UserID:  userID,
		Balance: balance,
	})
}
