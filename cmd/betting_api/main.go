package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/race-betting-ledger/internal/betting_api"
	"github.com/race-betting-ledger/internal/betting_api/components"
	"github.com/race-betting-ledger/internal/betting_api/service"
	"github.com/race-betting-ledger/internal/config"
	"github.com/race-betting-ledger/internal/data/cache"
	"github.com/race-betting-ledger/internal/data/mongo"
	"github.com/race-betting-ledger/internal/data/openf1"
	"github.com/race-betting-ledger/internal/data/postgres"
	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/race"
	"github.com/race-betting-ledger/internal/logger"
	"github.com/race-betting-ledger/internal/platform/metrics"
	"github.com/race-betting-ledger/internal/platform/persistence"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("betting_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Betting API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Postgres applies migrations before the pool is opened
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	redisClient, err := cache.ConnectRedis(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)
	metricsServer := metrics.StartMetricsServer(log, cfg.Metrics.Port, registry, metrics.AllHealthy(
		postgresDB.Ping,
		mongoDB.Ping,
		func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	))

	// Repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	betRepo := postgres.NewBetRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	outcomeRepo := postgres.NewOutcomeRepository(log, postgresDB)
	ledgerRepo := mongo.NewLedgerRepository(log, mongoDB.Database())
	raceData := openf1.NewClient(log, cfg.OpenF1, appMetrics)

	// Services
	accountManager := components.NewAccountManager(accountRepo, log)
	journal := components.NewLedgerJournal(outboxRepo, log)
	idempotencyStore := cache.NewIdempotencyStore(log, redisClient, cfg.Redis.IdempotencyTTL)

	settlementService := service.NewSettlementService(log, postgresDB, betRepo, accountManager, journal, bet.NewSettlementPolicy(), appMetrics)
	eventPublisher := service.NewInMemoryEventPublisher(log, settlementService)
	eventsService := service.NewEventsService(log, postgresDB, raceData, outcomeRepo, race.NewRandomOddsPolicy(), eventPublisher)
	betService := service.NewBetPlacementService(log, postgresDB, eventsService, betRepo, accountManager, journal, idempotencyStore, appMetrics)
	ledgerService := service.NewLedgerService(log, ledgerRepo)

	server, err := betting_api.NewServer(log, cfg, eventsService, betService, ledgerService)
	if err != nil {
		log.Error("Failed to initialize HTTP server", "error", err)
		os.Exit(1)
	}

	errChan := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop taking requests before closing what they depend on
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping metrics server", "error", err)
		shutdownErr = err
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis client", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if shutdownErr != nil {
		log.Error("Betting API shutdown completed with errors")
	} else {
		log.Info("Betting API shutdown completed successfully")
	}
}
