package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// timeoutMessage is the caller-facing message for an expired request deadline.
const timeoutMessage = "request timeout exceeded"

// Timeout sets a deadline on the request context. Handlers must honour
// ctx.Done() themselves; nothing is interrupted. If the deadline expired and
// nothing was written, a 503 domain error is pushed so it supersedes whatever
// context error the handler reported.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			dto.Fail(c, domain.NewErrorWithMessage(http.StatusServiceUnavailable, timeoutMessage).
				WithCause(ctx.Err()))
		}
	}
}
