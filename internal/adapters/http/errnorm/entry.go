package errnorm

import "log/slog"

const diagnosticMessage = "http error"

// Diagnostic entry keys.
const (
	KeyStatusCode  = "statusCode"
	KeyMethod      = "method"
	KeyOriginalURL = "originalUrl"
	KeyCost        = "cost"
	KeyContentType = "contentType"
	KeyReqBody     = "reqBody"
	KeyResBody     = "resBody"
	KeyErrStack    = "errStack"
)

// diagnosticAttrs builds the structured entry for an unclassified failure.
// cost is always 0; request timing belongs to the access log.
func diagnosticAttrs(status int, req Request, trace string) []slog.Attr {
	return []slog.Attr{
		slog.Int(KeyStatusCode, status),
		slog.String(KeyMethod, req.Method),
		slog.String(KeyOriginalURL, req.OriginalURL),
		slog.Int(KeyCost, 0),
		slog.String(KeyContentType, req.ContentType),
		slog.Any(KeyReqBody, req.Body),
		slog.String(KeyResBody, trace),
		slog.Bool(KeyErrStack, true),
	}
}
