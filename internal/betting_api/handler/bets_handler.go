package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/race-betting-ledger/internal/betting_api/middleware"
	"github.com/race-betting-ledger/internal/betting_api/service"
	"github.com/race-betting-ledger/internal/domain/money"
	"github.com/race-betting-ledger/internal/logger"
)

// IdempotencyKeyHeader lets clients retry a placement without placing it twice
const IdempotencyKeyHeader = "Idempotency-Key"

type BetsHandler struct {
	betService service.BetService
	logger     *slog.Logger
}

func NewBetsHandler(logger *slog.Logger, betService service.BetService) *BetsHandler {
	return &BetsHandler{
		betService: betService,
		logger:     logger,
	}
}

// List returns the caller's bets, most recent first
func (h *BetsHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	bets, err := h.betService.GetBets(c.Request.Context(), userID)
	if err != nil {
		RespondInternalError(c)
		return
	}

	response := make([]BetResponse, 0, len(bets))
	for _, b := range bets {
		response = append(response, toBetResponse(b))
	}
	RespondOK(c, response)
}

func (h *BetsHandler) Place(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Warn("Invalid bet request body", "user_id", userID, "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := money.New(req.BetAmount)
	if err != nil {
		RespondBadRequest(c, "Invalid bet amount")
		return
	}

	betID, err := h.betService.PlaceBet(c.Request.Context(), userID, service.PlaceBetCommand{
		EventID:        req.EventID,
		DriverID:       req.DriverID,
		Amount:         amount,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
		CorrelationID:  middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondPlacementError(c, err)
		return
	}

	RespondCreated(c, BetCreatedResponse{BetID: betID})
}
