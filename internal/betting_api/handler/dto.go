package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/ledger"
	"github.com/race-betting-ledger/internal/domain/race"
)

// EventsQueryParams filters GET /events; every filter is optional
type EventsQueryParams struct {
	Year        *int   `form:"year" binding:"omitempty,min=1950,max=2100"`
	Country     string `form:"country" binding:"omitempty,max=64"`
	MeetingKey  *int   `form:"meeting_key" binding:"omitempty,min=1"`
	SessionType string `form:"session_type" binding:"omitempty,max=32"`
}

func (p EventsQueryParams) toQuery() race.EventsQuery {
	return race.EventsQuery{
		Year:        p.Year,
		Country:     p.Country,
		MeetingKey:  p.MeetingKey,
		SessionType: p.SessionType,
	}
}

type FinishEventRequest struct {
	WinningDriverID int `json:"winning_driver_id" binding:"required,gt=0"`
}

type FinishEventResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

// PlaceBetRequest accepts bet_amount as a JSON number or string
type PlaceBetRequest struct {
	EventID   string          `json:"event_id" binding:"required,notblank"`
	DriverID  int             `json:"driver_id" binding:"required,gt=0"`
	BetAmount decimal.Decimal `json:"bet_amount" binding:"stake"`
}

type BetCreatedResponse struct {
	BetID int64 `json:"bet_id"`
}

type BetResponse struct {
	ID       int64  `json:"id"`
	Amount   string `json:"amount"`
	EventID  string `json:"event_id"`
	DriverID int    `json:"driver_id"`
	UserID   int64  `json:"user_id"`
	Status   string `json:"status"`
	Odds     int    `json:"odds"`
}

func toBetResponse(b *bet.Bet) BetResponse {
	return BetResponse{
		ID:       b.ID,
		Amount:   b.Amount.String(),
		EventID:  b.EventID,
		DriverID: b.DriverID,
		UserID:   b.UserID,
		Status:   string(b.Status),
		Odds:     b.Odds,
	}
}

type LedgerEntryResponse struct {
	EntryID      string `json:"entry_id"`
	Type         string `json:"type"`
	BetID        int64  `json:"bet_id,omitempty"`
	EventID      string `json:"event_id"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
	RecordedAt   string `json:"recorded_at,omitempty"`
}

func toLedgerEntryResponse(entry *ledger.Entry) LedgerEntryResponse {
	response := LedgerEntryResponse{
		EntryID:      entry.EntryID.String(),
		Type:         string(entry.Type),
		BetID:        entry.BetID,
		EventID:      entry.EventID,
		Amount:       entry.Amount,
		BalanceAfter: entry.BalanceAfter,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.RecordedAt != nil {
		response.RecordedAt = entry.RecordedAt.Format(time.RFC3339)
	}
	return response
}

type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
