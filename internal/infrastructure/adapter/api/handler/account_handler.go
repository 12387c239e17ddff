package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	domainerr "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	accountUseCase "github.com/loomapp/credit-ledger/internal/domain/usecase/account"
	ledgerUseCase "github.com/loomapp/credit-ledger/internal/domain/usecase/ledger"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/middleware"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// AccountHandler handles the read side of the ledger API
type AccountHandler struct {
	accountService *accountUseCase.UseCase
	logger         coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accountService *accountUseCase.UseCase, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// GetBalance handles the GET /api/v1/credits/balance endpoint
func (h *AccountHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Authentication required",
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

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: balance,
	})
}

// ListTransactions handles the GET /api/v1/credits/transactions endpoint
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Authentication required",
		})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidLimit),
				Message: "Invalid limit parameter",
			})
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	page, err := h.accountService.ListTransactions(c.Request.Context(), userID, limit, c.Query("cursor"))
	if err != nil {
		c.JSON(ledgerUseCase.StatusForError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	items := make([]dto.HistoryItem, 0, len(page.Transactions))
	for _, txn := range page.Transactions {
		items = append(items, dto.HistoryItem{
			ID:           txn.ID,
			Type:         string(txn.Type),
			Amount:       txn.Amount,
			Description:  txn.Description,
			BalanceAfter: txn.BalanceAfter,
			CreatedAt:    txn.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		Transactions: items,
		NextCursor:   page.NextCursor,
	})
}
