package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/race-betting-ledger/internal/config"
	"github.com/race-betting-ledger/internal/data/mongo"
	"github.com/race-betting-ledger/internal/data/postgres"
	"github.com/race-betting-ledger/internal/ledger_recorder/components"
	"github.com/race-betting-ledger/internal/ledger_recorder/consumer"
	"github.com/race-betting-ledger/internal/ledger_recorder/outbox_poller"
	"github.com/race-betting-ledger/internal/ledger_recorder/service"
	"github.com/race-betting-ledger/internal/logger"
	"github.com/race-betting-ledger/internal/platform/messaging/consumers"
	"github.com/race-betting-ledger/internal/platform/messaging/producers"
	"github.com/race-betting-ledger/internal/platform/metrics"
	"github.com/race-betting-ledger/internal/platform/persistence"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_recorder")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger Recorder",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)
	metricsServer := metrics.StartMetricsServer(log, cfg.Metrics.Port, registry, metrics.AllHealthy(postgresDB.Ping, mongoDB.Ping))

	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	ledgerRepo := mongo.NewLedgerRepository(log, mongoDB.Database())
	if err := ledgerRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to ensure ledger indexes", "error", err)
		os.Exit(1)
	}

	ledgerProducer, err := producers.NewLedgerEntryProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize ledger Kafka producer", "error", err)
		os.Exit(1)
	}

	// nil when no DLQ topic is configured; its methods are nil-safe
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)

	recordingService := components.CreateRecordingService(ledgerRepo, dlqProducer, appMetrics, log, cfg)
	entryHandler := consumer.NewLedgerEntryHandler(log, recordingService, dlqProducer)

	ledgerPublisher := outbox_poller.NewLedgerPublisher(outboxRepo, ledgerProducer, appMetrics, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, ledgerPublisher, log)

	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	if err := kafkaConsumer.Subscribe(appCtx, entryHandler.HandleMessage); err != nil {
		errChan <- fmt.Errorf("kafka consumer error: %w", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("Outbox poller stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	var shutdownErr error

	// waits for the consume loop, so no new entries reach the pool after this
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}

	if pooled, ok := recordingService.(*service.WorkerPoolRecordingService); ok {
		pooled.Shutdown()
	}

	if err := ledgerProducer.Close(); err != nil {
		log.Error("Error closing ledger Kafka producer", "error", err)
		shutdownErr = err
	}

	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
		shutdownErr = err
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping metrics server", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serviceErr != nil {
		log.Error("Ledger Recorder shutdown with errors", "error", serviceErr)
	}
	if shutdownErr != nil {
		log.Error("Ledger Recorder shutdown completed with errors")
	} else {
		log.Info("Ledger Recorder shutdown completed successfully")
	}
}
