package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/farmasys/cajacentral/internal/adapter/http"
	"github.com/farmasys/cajacentral/internal/adapter/http/handler"
	postgresRepo "github.com/farmasys/cajacentral/internal/adapter/repository/postgres"
	redisRepo "github.com/farmasys/cajacentral/internal/adapter/repository/redis"
	"github.com/farmasys/cajacentral/internal/infrastructure/config"
	"github.com/farmasys/cajacentral/internal/infrastructure/logger"
	"github.com/farmasys/cajacentral/internal/infrastructure/metrics"
	"github.com/farmasys/cajacentral/internal/infrastructure/postgres"
	"github.com/farmasys/cajacentral/internal/infrastructure/redis"
	"github.com/farmasys/cajacentral/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	countRepo := postgresRepo.NewCountRepository(pool)
	withdrawalRepo := postgresRepo.NewWithdrawalRepository(pool)
	depositRepo := postgresRepo.NewDepositRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Domain metrics, exposed on /metrics together with the HTTP collectors
	appMetrics := metrics.New()

	// Initialize use cases
	writer := usecase.NewLedgerWriter(balanceRepo, movementRepo, idGen, appMetrics)
	ledgerUC := usecase.NewLedgerUseCase(balanceRepo, movementRepo, cache)
	countUC := usecase.NewCountUseCase(txManager, countRepo, writer, balanceRepo, idGen, retrier, cache, auditRepo, appMetrics)
	withdrawalUC := usecase.NewWithdrawalUseCase(txManager, withdrawalRepo, writer, idGen, retrier, cache, auditRepo, appMetrics)
	depositUC := usecase.NewDepositUseCase(txManager, depositRepo, writer, idGen, retrier, cache, auditRepo, appMetrics)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	// Initialize handlers
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	countHandler := handler.NewCountHandler(countUC)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalUC, ledgerUC)
	depositHandler := handler.NewDepositHandler(depositUC, ledgerUC)
	auditHandler := handler.NewAuditHandler(auditUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:     ledgerHandler,
		CountHandler:      countHandler,
		WithdrawalHandler: withdrawalHandler,
		DepositHandler:    depositHandler,
		AuditHandler:      auditHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		Logger:            appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
