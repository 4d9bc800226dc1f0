package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextMessageID is the Gin context key holding a validated message ID.
const ContextMessageID = "message_id"

// ExtractUUIDParam builds a middleware that validates a UUID URL parameter
// and stores its canonical form in the Gin context.
// paramName is the URL parameter (e.g. "id"); contextKey is where the value
// is stored.
func ExtractUUIDParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("Invalid %s", paramName),
			})
			c.Abort()
			return
		}
		c.Set(contextKey, id.String())
		c.Next()
	}
}
