package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/race-betting-ledger/internal/domain/bet"
	"github.com/race-betting-ledger/internal/domain/race"
)

// respondRetrievalError maps race-data failures so callers can narrow the query or back off
func respondRetrievalError(c *gin.Context, err error) {
	var retrievalErr race.RetrievalError
	if !errors.As(err, &retrievalErr) {
		RespondInternalError(c)
		return
	}

	switch retrievalErr {
	case race.ErrQueryTooBroad:
		RespondWithError(c, http.StatusUnprocessableEntity, string(retrievalErr), "Query too broad, narrow the filters")
	case race.ErrRateLimited:
		RespondWithError(c, http.StatusTooManyRequests, string(retrievalErr), "Race data provider rate limit reached, retry later")
	default:
		RespondWithError(c, http.StatusInternalServerError, string(race.ErrInternalFailure), "Race data provider unavailable")
	}
}

func respondSettlementError(c *gin.Context, err error) {
	var settlementErr race.SettlementError
	if !errors.As(err, &settlementErr) {
		RespondInternalError(c)
		return
	}

	switch settlementErr {
	case race.ErrInvalidRequest:
		RespondWithError(c, http.StatusBadRequest, string(settlementErr), "Invalid event or winning driver")
	case race.ErrEventAlreadyFinished:
		RespondWithError(c, http.StatusConflict, string(settlementErr), "Event outcome already recorded")
	default:
		RespondInternalError(c)
	}
}

func respondPlacementError(c *gin.Context, err error) {
	var placementErr bet.PlacementError
	if !errors.As(err, &placementErr) {
		RespondInternalError(c)
		return
	}

	switch placementErr {
	case bet.ErrAccountNotFound:
		RespondWithError(c, http.StatusBadRequest, placementErr.Code(), "No account for user")
	case bet.ErrDriverMarketNotFound:
		RespondWithError(c, http.StatusBadRequest, placementErr.Code(), "Driver is not offered for this event")
	case bet.ErrInsufficientFunds:
		RespondWithError(c, http.StatusPaymentRequired, placementErr.Code(), "Balance does not cover the stake")
	case bet.ErrPlacementInProgress:
		RespondWithError(c, http.StatusConflict, placementErr.Code(), "A placement with this idempotency key is in progress")
	default:
		RespondInternalError(c)
	}
}
