package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader carries the caller's identity; it is trusted as given
	UserIDHeader = "X-USER-ID"

	UserIDKey = "user_id"
)

// UserID rejects requests without a positive numeric X-USER-ID and stores the parsed value
func UserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		userID, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || userID <= 0 {
			response := gin.H{
				"error": gin.H{
					"code":    "BAD_REQUEST",
					"message": "Missing or invalid " + UserIDHeader + " header",
				},
			}
			if correlationID := GetCorrelationID(c); correlationID != "" {
				response["correlation_id"] = correlationID
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, response)
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the caller's ID, or zero when the UserID middleware did not run
func GetUserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
