package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/race-betting-ledger/internal/betting_api/middleware"
	"github.com/race-betting-ledger/internal/betting_api/service"
)

// LedgerHandler serves the caller's recorded money movements
type LedgerHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

func NewLedgerHandler(logger *slog.Logger, ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

func (h *LedgerHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.ledgerService.GetLedger(c.Request.Context(), userID, pagination.Page, pagination.PerPage)
	if err != nil {
		RespondInternalError(c)
		return
	}

	response := make([]LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toLedgerEntryResponse(entry))
	}

	RespondWithPaginatedData(c, http.StatusOK, response, pagination.Page, pagination.PerPage, int(total))
}
