package logging

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// Attribute keys attached by the request middleware.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
)

var defaultLogger = slog.Default()

// FromContext returns the request-scoped logger, or the process default when
// ctx is nil or carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	return defaultLogger
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithRequestID tags the context logger with the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, KeyRequestID, id)
}

// WithCorrelationID tags the context logger with the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, KeyCorrelationID, id)
}

// WithTraceID tags the context logger with the active trace ID.
func WithTraceID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, KeyTraceID, id)
}

func withAttr(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(slog.String(key, value)))
}

// SetDefault replaces both the package fallback and slog's default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
