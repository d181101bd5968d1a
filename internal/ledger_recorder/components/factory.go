package components

import (
	"log/slog"

	"github.com/race-betting-ledger/internal/config"
	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/ledger_recorder/service"
	"github.com/race-betting-ledger/internal/platform/messaging/producers"
	"github.com/race-betting-ledger/internal/platform/metrics"
)

// CreateRecordingService wires the recording service behind a worker pool.
// It falls back to the unpooled service when the pool cannot be created.
func CreateRecordingService(
	ledgerRepo ledger.Repository,
	dlq producers.DeadLetterPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg *config.Config,
) service.RecordingService {
	baseService := service.NewRecordingService(
		ledgerRepo,
		NewEntryValidator(ledgerRepo, logger),
		NewRejectionRecorder(dlq, logger),
		m,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolRecordingService(
		baseService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool recording service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
