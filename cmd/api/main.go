package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountUseCase "github.com/loomapp/credit-ledger/internal/domain/usecase/account"
	ledgerUseCase "github.com/loomapp/credit-ledger/internal/domain/usecase/ledger"

	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/database"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/logger"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/repository"
	timeProvider "github.com/loomapp/credit-ledger/internal/infrastructure/adapter/time"
	"github.com/loomapp/credit-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.IsProduction())
	defer appLogger.Flush()

	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LockTimeout:     time.Duration(cfg.Ledger.LockTimeoutMs) * time.Millisecond,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	tp := timeProvider.NewRealTimeProvider()

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	migrationMgr := migration.NewMigrationManager(dbManager.DB(), appLogger, tp)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Repositories for the read paths and the reconciler; writes go through
	// the unit of work
	accountRepo := repository.NewAccountRepository(dbManager.DB(), appLogger)
	transactionRepo := repository.NewTransactionRepository(dbManager.DB(), appLogger)
	userRepo := repository.NewUserRepository(dbManager.DB(), appLogger)
	holdRepo := repository.NewLedgerHoldRepository(dbManager.DB(), appLogger)

	uow := dbManager.CreateUnitOfWork()

	ledgerService := ledgerUseCase.NewService(uow, holdRepo, tp, appLogger)
	accountService := accountUseCase.NewUseCase(accountRepo, transactionRepo, appLogger)

	// Background invariant checker
	reconcilerCtx, stopReconciler := context.WithCancel(context.Background())
	defer stopReconciler()
	if cfg.Ledger.ReconcileEnabled {
		reconciler := ledgerUseCase.NewReconciler(
			uow,
			userRepo,
			holdRepo,
			tp,
			appLogger,
			time.Duration(cfg.Ledger.ReconcileInterval)*time.Minute,
		)
		go reconciler.Run(reconcilerCtx)
	}

	ledgerHandler := handler.NewLedgerHandler(ledgerService, accountService, appLogger)
	accountHandler := handler.NewAccountHandler(accountService, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, ledgerHandler, accountHandler, cfg.Auth.JWTSecret, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	stopReconciler()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}
