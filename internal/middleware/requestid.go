package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxKeyRequestID = "requestID"

// RequestID assigns a uuid to each request (or propagates the caller's)
// and echoes it in the X-Request-ID response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}
