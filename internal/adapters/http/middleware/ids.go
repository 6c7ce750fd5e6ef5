// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/error-normalizer/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID is the header name for correlation ID. It tracks a
	// business transaction across services, unlike the per-hop request ID.
	HeaderCorrelationID = "X-Correlation-ID"
)

// RequestID returns middleware that takes the request ID from the
// X-Request-ID header, or generates a UUID v4 when absent. The ID is echoed
// in the response headers and attached to the context logger.
func RequestID() gin.HandlerFunc {
	return idMiddleware(HeaderRequestID, logging.WithRequestID)
}

// CorrelationID is RequestID for the X-Correlation-ID header.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(HeaderCorrelationID, logging.WithCorrelationID)
}

func idMiddleware(header string, enrich func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(header, id)
		c.Request = c.Request.WithContext(enrich(c.Request.Context(), id))

		c.Next()
	}
}
