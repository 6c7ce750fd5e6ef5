package errnorm

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Middleware returns the terminal error middleware. Once the rest of the chain
// returns it normalizes the last error pushed with c.Error, unless a response
// was already written. Panics that escape the chain are normalized too.
//
// Register it after access logging and metrics so those observe the
// normalized status, and before Recovery and the route handlers.
func Middleware(n *Normalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.Abort()
				n.Handle(c.Request.Context(), NewPanicError(r, debug.Stack()), RequestFrom(c), sinkFor(c))
			}
		}()

		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		n.Handle(c.Request.Context(), last.Err, RequestFrom(c), sinkFor(c))
	}
}

// discardSink drops the envelope when headers were already sent.
type discardSink struct{}

func (discardSink) JSON(int, any) {}

// contextSink renders through gin and reports whether the writer has
// started the response.
type contextSink struct {
	c *gin.Context
}

func (s contextSink) JSON(code int, obj any) {
	s.c.JSON(code, obj)
}

func (s contextSink) Written() bool {
	return s.c.Writer.Written()
}

func sinkFor(c *gin.Context) ResponseSink {
	if c.Writer.Written() {
		return discardSink{}
	}

	return contextSink{c: c}
}
