package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	catalogapp "github.com/digiprime/backend/internal/application/catalog"
	crmapp "github.com/digiprime/backend/internal/application/crm"
	financeapp "github.com/digiprime/backend/internal/application/finance"
	inventoryapp "github.com/digiprime/backend/internal/application/inventory"
	syncapp "github.com/digiprime/backend/internal/application/sync"
	tradeapp "github.com/digiprime/backend/internal/application/trade"
	"github.com/digiprime/backend/internal/infrastructure/cache"
	"github.com/digiprime/backend/internal/infrastructure/config"
	"github.com/digiprime/backend/internal/infrastructure/crypto"
	"github.com/digiprime/backend/internal/infrastructure/event"
	"github.com/digiprime/backend/internal/infrastructure/logger"
	"github.com/digiprime/backend/internal/infrastructure/persistence"
	"github.com/digiprime/backend/internal/interfaces/http/handler"
	"github.com/digiprime/backend/internal/interfaces/http/middleware"
	"github.com/digiprime/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting DigiPrime backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, mapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Stock credential cipher
	cipher, err := crypto.NewAESCipher(cfg.Crypto.Secret, cfg.Crypto.Salt)
	if err != nil {
		log.Fatal("Failed to initialize credential cipher", zap.Error(err))
	}

	// Event bus and batch idempotency store
	eventBus := event.NewInMemoryEventBus(log)
	idempotencyStore := cache.NewIdempotencyStore(cfg.Redis, log)
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockAccountRepo := persistence.NewGormStockAccountRepository(db.DB)
	stockCreditRepo := persistence.NewGormStockCreditRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	customerViewRepo := persistence.NewGormCustomerViewRepository(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo, eventBus, log)
	stockService := inventoryapp.NewStockService(stockAccountRepo, stockCreditRepo, productRepo, cipher, eventBus, log)
	orderService := tradeapp.NewOrderService(orderRepo, eventBus, log)
	financeService := financeapp.NewFinanceService(transactionRepo, ledgerRepo)
	ledgerSyncService := financeapp.NewLedgerSyncService(orderRepo, ledgerRepo, log)
	reconcileService := syncapp.NewReconcileService(orderRepo, productRepo, eventBus, log)
	customerService := crmapp.NewCustomerService(customerViewRepo, orderRepo)

	// Completed orders produce income transactions via the event bus
	orderCompletedHandler := financeapp.NewOrderCompletedHandler(transactionRepo, log)
	eventBus.Subscribe(orderCompletedHandler, orderCompletedHandler.EventTypes()...)

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	stockHandler := handler.NewStockHandler(stockService)
	orderHandler := handler.NewOrderHandler(orderService)
	financeHandler := handler.NewFinanceHandler(financeService, ledgerSyncService)
	syncHandler := handler.NewSyncHandler(reconcileService, idempotencyStore, cfg.Sync.MaxBatchSize, cfg.Sync.IdempotencyTTL, log)
	customerHandler := handler.NewCustomerHandler(customerService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// The sync upload is called by scraper userscripts running on the
	// marketplace origin, so its routes get open CORS; everything else
	// uses the configured whitelist.
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	restrictedCORS := middleware.CORSWithConfig(corsConfig)

	openConfig := middleware.DefaultCORSConfig()
	openConfig.AllowOrigins = []string{"*"}
	openConfig.AllowCredentials = false
	openCORS := middleware.CORSWithConfig(openConfig)

	engine.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/v1/sync/") {
			openCORS(c)
			return
		}
		restrictedCORS(c)
	})

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health and readiness endpoints (outside API versioning)
	engine.GET("/health", healthHandler(db))
	engine.GET("/ready", healthHandler(db))

	// Catalog domain (product definitions)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.Get)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)

	// Stock domain (account credentials and credit codes)
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/accounts", stockHandler.AddAccounts)
	stockRoutes.GET("/accounts", stockHandler.ListAccounts)
	stockRoutes.POST("/accounts/sell", stockHandler.SellAccount)
	stockRoutes.POST("/accounts/:id/reserve", stockHandler.ReserveAccount)
	stockRoutes.POST("/accounts/:id/release", stockHandler.ReleaseAccount)
	stockRoutes.DELETE("/accounts/:id", stockHandler.DeleteAccount)
	stockRoutes.POST("/credits", stockHandler.AddCredits)
	stockRoutes.GET("/credits", stockHandler.ListCredits)
	stockRoutes.POST("/credits/sell", stockHandler.SellCredit)
	stockRoutes.DELETE("/credits/:id", stockHandler.DeleteCredit)

	// Trade domain (orders)
	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/orders", orderHandler.Create)
	tradeRoutes.GET("/orders", orderHandler.List)
	tradeRoutes.GET("/orders/:id", orderHandler.Get)
	tradeRoutes.PUT("/orders/:id", orderHandler.Update)
	tradeRoutes.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	tradeRoutes.PUT("/orders/:id/buyer-meta", orderHandler.SetBuyerMeta)
	tradeRoutes.POST("/orders/:id/refill-events", orderHandler.AddRefillEvent)
	tradeRoutes.PUT("/orders/:id/product", orderHandler.AssignProduct)
	tradeRoutes.DELETE("/orders/:id", orderHandler.Delete)

	// Finance domain (transactions and the ledger)
	financeRoutes := router.NewDomainGroup("finance", "/finance")
	financeRoutes.POST("/transactions", financeHandler.CreateTransaction)
	financeRoutes.GET("/transactions", financeHandler.ListTransactions)
	financeRoutes.GET("/transactions/:id", financeHandler.GetTransaction)
	financeRoutes.DELETE("/transactions/:id", financeHandler.DeleteTransaction)
	financeRoutes.POST("/ledger", financeHandler.CreateLedgerEntry)
	financeRoutes.GET("/ledger", financeHandler.ListLedgerEntries)
	financeRoutes.DELETE("/ledger/:id", financeHandler.DeleteLedgerEntry)
	financeRoutes.GET("/summary", financeHandler.GetSummary)
	financeRoutes.POST("/ledger/sync-orders", financeHandler.SyncLedgerFromOrders)

	// Sync domain (marketplace order reconciliation)
	syncRoutes := router.NewDomainGroup("sync", "/sync")
	syncRoutes.POST("/orders", syncHandler.SyncOrders)
	syncRoutes.GET("/unmatched", syncHandler.ListUnmatched)

	// CRM domain (buyer aggregates derived from orders)
	crmRoutes := router.NewDomainGroup("crm", "/crm")
	crmRoutes.GET("/customers", customerHandler.List)
	crmRoutes.GET("/customers/:buyer_name", customerHandler.Get)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(catalogRoutes).
		Register(stockRoutes).
		Register(tradeRoutes).
		Register(financeRoutes).
		Register(syncRoutes).
		Register(crmRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

func mapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
