package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/errnorm"
	"github.com/jsamuelsen/error-normalizer/internal/platform/logging"
)

// Recovery returns middleware that turns a panic in the handlers below it
// into an errnorm.PanicError carrying the stack, pushes it with c.Error and
// aborts. It writes nothing itself; errnorm.Middleware renders the response
// and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				_ = c.Error(errnorm.NewPanicError(r, debug.Stack()))
				c.Abort()

				logging.FromContext(c.Request.Context()).Warn("panic recovered",
					slog.Any("panic", r),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
				)
			}
		}()

		c.Next()
	}
}
