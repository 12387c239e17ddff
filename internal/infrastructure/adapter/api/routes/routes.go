package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	ledgerHandler *handler.LedgerHandler,
	accountHandler *handler.AccountHandler,
	jwtSecret string,
	logger coreport.Logger,
) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	credits := router.Group("/api/v1/credits")
	credits.Use(middleware.Auth(jwtSecret, logger))
	{
		// GET /api/v1/credits/balance
		credits.GET("/balance", accountHandler.GetBalance)

		// GET /api/v1/credits/transactions?limit=&cursor=
		credits.GET("/transactions", accountHandler.ListTransactions)

		// POST /api/v1/credits/transactions
		credits.POST("/transactions", ledgerHandler.ApplyDelta)

		// POST /api/v1/credits/welcome
		credits.POST("/welcome", ledgerHandler.GrantWelcomeBonus)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
