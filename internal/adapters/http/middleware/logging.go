package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/platform/logging"
)

// healthPrefix marks operational endpoints that are never access-logged.
const healthPrefix = "/-/"

// Logging returns middleware that logs request start and completion on the
// context logger. Health endpoints and skipPaths are not logged. Completion
// is logged at WARN for 4xx and ERROR for 5xx.
func Logging(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok || strings.HasPrefix(path, healthPrefix) {
			c.Next()
			return
		}

		start := time.Now()
		target := c.Request.URL.RequestURI()
		logger := logging.FromContext(c.Request.Context())

		logger.Info("request started",
			slog.String("method", c.Request.Method),
			slog.String("path", target),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		logger.LogAttrs(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", target),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}
