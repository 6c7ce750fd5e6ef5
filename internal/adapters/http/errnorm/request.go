package errnorm

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Request is the read-only view of the in-flight request used for the
// envelope path and the diagnostic entry.
type Request struct {
	Method      string
	OriginalURL string
	ContentType string

	// Body is the decoded request body snapshot: a JSON value when the
	// content type is JSON, the raw text otherwise, nil when empty.
	Body any
}

// Path returns the envelope path, "<METHOD> <originalUrl>".
func (r Request) Path() string {
	return r.Method + " " + r.OriginalURL
}

// RequestFrom builds a Request from the gin context. OriginalURL is the
// request target as received, query string included.
func RequestFrom(c *gin.Context) Request {
	req := Request{
		Method:      c.Request.Method,
		OriginalURL: OriginalURL(c.Request),
		ContentType: c.GetHeader("Content-Type"),
	}

	if raw, ok := c.Get(gin.BodyBytesKey); ok {
		if body, ok := raw.([]byte); ok {
			req.Body = decodeBody(c.ContentType(), body)
		}
	}

	return req
}

// OriginalURL returns the request target as received, falling back to the
// parsed URL for requests built in-process.
func OriginalURL(r *http.Request) string {
	if r.RequestURI != "" || r.URL == nil {
		return r.RequestURI
	}

	return r.URL.RequestURI()
}

func decodeBody(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	if contentType == binding.MIMEJSON || strings.HasSuffix(contentType, "+json") {
		var v any
		if err := binding.JSON.BindBody(body, &v); err == nil {
			return v
		}
	}

	return string(body)
}
