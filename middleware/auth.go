package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tripmate-backend/utils"
)

// AuthRequired validates the bearer token and stores the traveler ID in
// the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.Unauthorized(c, "Missing or malformed authorization header")
			c.Abort()
			return
		}

		travelerID, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("traveler_id", travelerID)
		c.Next()
	}
}
