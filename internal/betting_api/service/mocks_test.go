package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/race-betting-ledger/internal/domain/account"
	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/domain/race"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeTxManager runs the callback without a real transaction
type fakeTxManager struct {
	calls     int
	commitErr error
}

func (f *fakeTxManager) ExecuteTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	if err := fn(nil); err != nil {
		return err
	}
	return f.commitErr
}

type fixedOdds int

func (o fixedOdds) NextOdds() race.Odds {
	odds, _ := race.NewOdds(int(o))
	return odds
}

func marketWithOdds(driverNumber, odds int) race.DriverMarket {
	m, _ := race.NewDriverMarket(race.Driver{DriverNumber: driverNumber}, fixedOdds(odds))
	return m
}

func moneyEq(expected string) interface{} {
	want := money.MustParse(expected)
	return mock.MatchedBy(func(m money.Money) bool { return m.Equal(want) })
}

type MockMarketProvider struct {
	mock.Mock
}

func (m *MockMarketProvider) GetDriverMarket(ctx context.Context, sessionID string, driverID int) ([]race.DriverMarket, error) {
	args := m.Called(ctx, sessionID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]race.DriverMarket), args.Error(1)
}

type MockBetRepo struct {
	mock.Mock
}

func (m *MockBetRepo) Save(ctx context.Context, b *bet.Bet) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBetRepo) SaveAll(ctx context.Context, bets []*bet.Bet) error {
	args := m.Called(ctx, bets)
	return args.Error(0)
}

func (m *MockBetRepo) FindByUserID(ctx context.Context, userID int64) ([]*bet.Bet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bet.Bet), args.Error(1)
}

func (m *MockBetRepo) FindByEventAndStatus(ctx context.Context, eventID string, status bet.Status) ([]*bet.Bet, error) {
	args := m.Called(ctx, eventID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bet.Bet), args.Error(1)
}

func (m *MockBetRepo) WithTx(_ pgx.Tx) bet.Repository {
	return m
}

type MockAccountManager struct {
	mock.Mock
}

func (m *MockAccountManager) DebitStake(ctx context.Context, tx pgx.Tx, userID int64, stake money.Money) (*account.Account, error) {
	args := m.Called(ctx, tx, userID, stake)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountManager) CreditPayouts(ctx context.Context, tx pgx.Tx, credits map[int64]money.Money) ([]*account.Account, error) {
	args := m.Called(ctx, tx, credits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

type MockLedgerJournal struct {
	mock.Mock
}

func (m *MockLedgerJournal) RecordStakeDebit(ctx context.Context, tx pgx.Tx, placed *bet.Bet, balanceAfter money.Money, correlationID string) error {
	args := m.Called(ctx, tx, placed, balanceAfter, correlationID)
	return args.Error(0)
}

func (m *MockLedgerJournal) RecordPayoutCredits(ctx context.Context, tx pgx.Tx, eventID string, credits map[int64]money.Money, accounts []*account.Account, correlationID string) error {
	args := m.Called(ctx, tx, eventID, credits, accounts, correlationID)
	return args.Error(0)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, userID int64, key string) (int64, bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, userID int64, key string, betID int64) error {
	args := m.Called(ctx, userID, key, betID)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, userID int64, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

type MockReadRepository struct {
	mock.Mock
}

func (m *MockReadRepository) GetEvents(ctx context.Context, query race.EventsQuery) ([]race.Event, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]race.Event), args.Error(1)
}

func (m *MockReadRepository) GetDrivers(ctx context.Context, sessionKey string, driverNumber *int) ([]race.Driver, error) {
	args := m.Called(ctx, sessionKey, driverNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]race.Driver), args.Error(1)
}

type MockOutcomeRepo struct {
	mock.Mock
}

func (m *MockOutcomeRepo) Save(ctx context.Context, outcome race.EventOutcome) (*race.EventOutcome, error) {
	args := m.Called(ctx, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*race.EventOutcome), args.Error(1)
}

func (m *MockOutcomeRepo) WithTx(_ pgx.Tx) race.OutcomeRepository {
	return m
}

type MockEventFinishedHandler struct {
	mock.Mock
}

func (m *MockEventFinishedHandler) HandleEventFinished(ctx context.Context, tx pgx.Tx, event race.EventFinished) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) GetByEntryID(ctx context.Context, entryID uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepo) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepo) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ MarketProvider            = (*MockMarketProvider)(nil)
	_ bet.Repository            = (*MockBetRepo)(nil)
	_ AccountManager            = (*MockAccountManager)(nil)
	_ LedgerJournal             = (*MockLedgerJournal)(nil)
	_ IdempotencyStore          = (*MockIdempotencyStore)(nil)
	_ race.ReadRepository       = (*MockReadRepository)(nil)
	_ race.OutcomeRepository    = (*MockOutcomeRepo)(nil)
	_ race.EventFinishedHandler = (*MockEventFinishedHandler)(nil)
	_ ledger.Repository         = (*MockLedgerRepo)(nil)
)
