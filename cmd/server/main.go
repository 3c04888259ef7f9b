package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/ledgerline/backend/internal/application/catalog"
	financeapp "github.com/ledgerline/backend/internal/application/finance"
	inventoryapp "github.com/ledgerline/backend/internal/application/inventory"
	orgapp "github.com/ledgerline/backend/internal/application/org"
	planningapp "github.com/ledgerline/backend/internal/application/planning"
	tradeapp "github.com/ledgerline/backend/internal/application/trade"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/infrastructure/auth"
	"github.com/ledgerline/backend/internal/infrastructure/cache"
	"github.com/ledgerline/backend/internal/infrastructure/config"
	"github.com/ledgerline/backend/internal/infrastructure/event"
	"github.com/ledgerline/backend/internal/infrastructure/logger"
	"github.com/ledgerline/backend/internal/infrastructure/persistence"
	"github.com/ledgerline/backend/internal/interfaces/http/handler"
	"github.com/ledgerline/backend/internal/interfaces/http/middleware"
	"github.com/ledgerline/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("starting ledgerline",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Event delivery is in-process; redis backs the idempotent handlers
	// and the HTTP Idempotency-Key checks, with an in-memory fallback
	// outside production.
	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Redis, log, cfg.App.Env != "production")
	if err != nil {
		log.Fatal("failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("failed to close idempotency store", zap.Error(err))
		}
	}()

	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("failed to stop event bus", zap.Error(err))
		}
	}()

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	cycleRepo := persistence.NewGormBudgetCycleRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	balanceRepo := persistence.NewGormBalanceRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	productionRepo := persistence.NewGormProductionOrderRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Transaction scopes for the multi-repository ledger operations
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	planningScope := persistence.NewGormPlanningTransactionScope(db.DB)
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)

	// Application services
	orgService := orgapp.NewOrganizationService(orgRepo)
	projectService := orgapp.NewProjectService(projectRepo, orgRepo)
	cycleService := planningapp.NewCycleService(cycleRepo, projectRepo)
	cycleCloseService := planningapp.NewCycleCloseService(planningScope)
	productService := catalogapp.NewProductService(productRepo)
	inventoryService := inventoryapp.NewInventoryService(inventoryScope, balanceRepo, movementRepo)
	productionService := inventoryapp.NewProductionService(inventoryScope, productRepo, productionRepo)
	saleService := tradeapp.NewSaleService(tradeScope, saleRepo, productRepo, cycleRepo)
	expenseService := financeapp.NewExpenseService(expenseRepo, cycleRepo)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, saleRepo, cycleRepo)

	for _, s := range []interface {
		SetEventPublisher(shared.EventPublisher)
	}{
		orgService, projectService, cycleService, cycleCloseService,
		productService, inventoryService, productionService,
		saleService, expenseService, invoiceService,
	} {
		s.SetEventPublisher(eventBus)
	}

	// Auth. The blacklist follows the same redis-or-fallback choice as the
	// idempotency store.
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist, err := auth.NewTokenBlacklist(cfg.Redis, log, cfg.App.Env != "production")
	if err != nil {
		log.Fatal("failed to initialize token blacklist", zap.Error(err))
	}
	defer func() {
		if closer, ok := blacklist.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error("failed to close token blacklist", zap.Error(err))
			}
		}
	}()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidations(); err != nil {
		log.Fatal("failed to register binding validations", zap.Error(err))
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	skipAuth := []string{"/api/v1/health", "/api/v1/ping", "/api/v1/info"}
	r := router.New(engine,
		middleware.JWTAuth(middleware.JWTConfig{
			Service:   jwtService,
			Blacklist: blacklist,
			Logger:    log,
			SkipPaths: skipAuth,
		}),
		orgContextSkipping(skipAuth),
		middleware.Idempotency(idempotencyStore, 0, log),
	)

	r.Register(
		handler.NewSystemHandler(db, cfg.App.Name, cfg.App.Env),
		handler.NewOrganizationHandler(orgService),
		handler.NewProjectHandler(projectService),
		handler.NewCycleHandler(cycleService, cycleCloseService),
		handler.NewProductHandler(productService),
		handler.NewInventoryHandler(inventoryService),
		handler.NewProductionHandler(productionService),
		handler.NewSaleHandler(saleService),
		handler.NewExpenseHandler(expenseService),
		handler.NewInvoiceHandler(invoiceService),
	)

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// orgContextSkipping wraps the org-context middleware so that the probe
// endpoints stay reachable without a tenant.
func orgContextSkipping(skipPaths []string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	orgContext := middleware.OrgContext()

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		orgContext(c)
	}
}
