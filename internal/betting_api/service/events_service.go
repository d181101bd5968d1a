package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/race-betting-ledger/internal/domain/race"
	"github.com/race-betting-ledger/internal/logger"
	"github.com/race-betting-ledger/internal/platform/persistence"
)

// EventsService implements EventService
type EventsService struct {
	races     race.ReadRepository
	outcomes  race.OutcomeRepository
	odds      race.OddsPolicy
	publisher race.EventPublisher
	txManager persistence.TxManager
	logger    *slog.Logger
}

func NewEventsService(
	logger *slog.Logger,
	txManager persistence.TxManager,
	races race.ReadRepository,
	outcomes race.OutcomeRepository,
	odds race.OddsPolicy,
	publisher race.EventPublisher,
) *EventsService {
	return &EventsService{
		races:     races,
		outcomes:  outcomes,
		odds:      odds,
		publisher: publisher,
		txManager: txManager,
		logger:    logger,
	}
}

func (s *EventsService) GetEvents(ctx context.Context, query race.EventsQuery) ([]race.Event, error) {
	return s.races.GetEvents(ctx, query)
}

// GetDriversMarket lists the session's drivers, each with freshly drawn odds
func (s *EventsService) GetDriversMarket(ctx context.Context, sessionID string) ([]race.DriverMarket, error) {
	drivers, err := s.races.GetDrivers(ctx, sessionID, nil)
	if err != nil {
		return nil, err
	}
	return s.toMarkets(drivers)
}

func (s *EventsService) GetDriverMarket(ctx context.Context, sessionID string, driverID int) ([]race.DriverMarket, error) {
	drivers, err := s.races.GetDrivers(ctx, sessionID, &driverID)
	if err != nil {
		return nil, err
	}
	return s.toMarkets(drivers)
}

func (s *EventsService) toMarkets(drivers []race.Driver) ([]race.DriverMarket, error) {
	markets := make([]race.DriverMarket, 0, len(drivers))
	for _, d := range drivers {
		market, err := race.NewDriverMarket(d, s.odds)
		if err != nil {
			return nil, err
		}
		markets = append(markets, market)
	}
	return markets, nil
}

// FinishEvent records the first outcome of an event and settles its bets in the same transaction.
// A settlement failure rolls the outcome back too.
func (s *EventsService) FinishEvent(ctx context.Context, eventID string, winningDriverID int) error {
	log := logger.FromContext(ctx, s.logger).With("event_id", eventID, "winning_driver_id", winningDriverID)

	if strings.TrimSpace(eventID) == "" || winningDriverID <= 0 {
		log.Warn("Invalid finish event request")
		return race.ErrInvalidRequest
	}

	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		saved, err := s.outcomes.WithTx(tx).Save(ctx, race.EventOutcome{
			EventID:         eventID,
			WinningDriverID: winningDriverID,
			FinishedAt:      time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to save event outcome: %w", err)
		}
		if saved == nil {
			return race.ErrEventAlreadyFinished
		}

		return s.publisher.PublishEventFinished(ctx, tx, race.EventFinished{
			EventID:         saved.EventID,
			WinningDriverID: saved.WinningDriverID,
			FinishedAt:      saved.FinishedAt,
		})
	})
	if err != nil {
		var rejection race.SettlementError
		if errors.As(err, &rejection) {
			log.Warn("Finish event rejected", "reason", string(rejection))
			return rejection
		}
		log.Error("Failed to finish event", "error", err)
		return fmt.Errorf("%w: %v", race.ErrSettlementInternal, err)
	}

	log.Info("Event finished")
	return nil
}
