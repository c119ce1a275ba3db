package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hamzaalmahdi/civitai/pkg/logger"
)

// RequestContextMiddleware ensures every request carries a request id,
// reusing the gateway-provided X-Request-ID when present. The id is stored
// on the request context so logger.WithContext picks it up everywhere
// downstream.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogMiddleware logs one line per request with status and latency.
func RequestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.WithContext(c.Request.Context()).Infof(
			"http request, method=%s path=%s status=%d latency=%s client=%s",
			c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP(),
		)
	}
}
