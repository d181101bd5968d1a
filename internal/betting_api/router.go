package betting_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/race-betting-ledger/internal/betting_api/handler"
	"github.com/race-betting-ledger/internal/betting_api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	eventsHandler *handler.EventsHandler,
	betsHandler *handler.BetsHandler,
	ledgerHandler *handler.LedgerHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	v1 := r.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			events.GET("", eventsHandler.List)
			events.GET("/:session_id/drivers_market", eventsHandler.DriversMarket)
			events.POST("/:event_id/settlement", eventsHandler.Finish)
		}

		// Wager and ledger operations act on behalf of the X-USER-ID caller
		user := v1.Group("", middleware.UserID())
		{
			user.GET("/bets", betsHandler.List)
			user.POST("/bets", betsHandler.Place)
			user.GET("/ledger", ledgerHandler.List)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
