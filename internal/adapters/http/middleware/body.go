package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// BodySnapshot returns middleware that buffers the request body, up to
// maxBytes, under gin.BodyBytesKey and restores c.Request.Body. Handlers
// binding with ShouldBindBodyWith reuse the buffer, and the error normalizer
// reads it for the diagnostic entry. Larger bodies are rejected with 413.
func BodySnapshot(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
		_ = c.Request.Body.Close()

		if err != nil {
			dto.Fail(c, fmt.Errorf("reading request body: %w", err))
			return
		}

		if int64(len(body)) > maxBytes {
			dto.Fail(c, domain.NewErrorWithMessage(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxBytes)))

			return
		}

		if len(body) > 0 {
			c.Set(gin.BodyBytesKey, body)
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		c.Next()
	}
}
