package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/race-betting-ledger/internal/domain/ledger"
)

// WorkerPoolRecordingService bounds concurrent Mongo writes with an ants pool
type WorkerPoolRecordingService struct {
	baseService RecordingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolRecordingService(
	baseService RecordingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolRecordingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolRecordingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// RecordEntry runs the base service on a pool worker and waits for its result
func (s *WorkerPoolRecordingService) RecordEntry(ctx context.Context, entry *ledger.Entry) error {
	resultChan := make(chan error, 1)

	// workers may outlive a canceled caller, so they get their own copy
	entryCopy := *entry

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.RecordEntry(ctx, &entryCopy)
	})
	if err != nil {
		s.logger.Error("Failed to submit ledger entry to worker pool",
			"entry_id", entry.EntryID.String(),
			"error", err,
		)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown waits for running workers to finish and releases the pool
func (s *WorkerPoolRecordingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

func (s *WorkerPoolRecordingService) Running() int {
	return s.pool.Running()
}

func (s *WorkerPoolRecordingService) Capacity() int {
	return s.pool.Cap()
}
