// Package middleware holds request-scoped gin middleware that is not tied to auth.
package middleware

import (
	"context"

	"presupuestos_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is propagated from the client when present, otherwise generated.
const HeaderRequestID = "X-Request-ID"

// RequestID tags every request with an id, echoes it in the response and
// stores it in the request context for logger.WithContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
