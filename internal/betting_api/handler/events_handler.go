package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/race-betting-ledger/internal/betting_api/service"
	"github.com/race-betting-ledger/internal/logger"
)

// EventsHandler serves race data and records event outcomes
type EventsHandler struct {
	eventService service.EventService
	logger       *slog.Logger
}

func NewEventsHandler(logger *slog.Logger, eventService service.EventService) *EventsHandler {
	return &EventsHandler{
		eventService: eventService,
		logger:       logger,
	}
}

func (h *EventsHandler) List(c *gin.Context) {
	var params EventsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	events, err := h.eventService.GetEvents(c.Request.Context(), params.toQuery())
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Warn("Failed to get events", "error", err)
		respondRetrievalError(c, err)
		return
	}

	RespondOK(c, events)
}

// DriversMarket lists the session's drivers with freshly drawn odds
func (h *EventsHandler) DriversMarket(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("session_id"))
	if sessionID == "" {
		RespondBadRequest(c, "Session ID is required")
		return
	}

	markets, err := h.eventService.GetDriversMarket(c.Request.Context(), sessionID)
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Warn("Failed to get drivers market", "session_id", sessionID, "error", err)
		respondRetrievalError(c, err)
		return
	}

	RespondOK(c, markets)
}

// Finish records the winner of an event and settles its bets
func (h *EventsHandler) Finish(c *gin.Context) {
	eventID := strings.TrimSpace(c.Param("event_id"))

	var req FinishEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	if err := h.eventService.FinishEvent(c.Request.Context(), eventID, req.WinningDriverID); err != nil {
		respondSettlementError(c, err)
		return
	}

	RespondOK(c, FinishEventResponse{EventID: eventID, Status: "FINISHED"})
}
