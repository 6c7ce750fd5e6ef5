package telemetry

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/error-normalizer/internal/platform/logging"
)

// InstrumentationName scopes the meters created by this service.
const InstrumentationName = "github.com/jsamuelsen/error-normalizer/telemetry"

// TraceIDHeader carries the active trace ID back to the caller.
const TraceIDHeader = "X-Trace-ID"

// unmatchedRoute labels requests that fell through to NoRoute or NoMethod,
// keeping arbitrary URLs out of the route label.
const unmatchedRoute = "unmatched"

// Metrics are the per-request instruments recorded by Middleware.
type Metrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

// NewMetrics registers the request instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests, including error normalization"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("request duration histogram: %w", err)
	}

	m.total, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("HTTP requests by final status"),
	)
	if err != nil {
		return nil, fmt.Errorf("request counter: %w", err)
	}

	m.inFlight, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("HTTP requests currently being served"),
	)
	if err != nil {
		return nil, fmt.Errorf("active request counter: %w", err)
	}

	return &m, nil
}

// Middleware records request metrics and, when a span is active, returns its
// trace ID in TraceIDHeader and tags the context logger with it.
// Mount it inside TracingMiddleware and outside errnorm.Middleware so the
// status it records is the normalized one.
func Middleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		ctx := c.Request.Context()

		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			id := sc.TraceID().String()
			c.Header(TraceIDHeader, id)

			ctx = logging.WithTraceID(ctx, id)
			c.Request = c.Request.WithContext(ctx)
		}

		method := attribute.String("http.method", c.Request.Method)
		inFlight := metric.WithAttributes(method)

		m.inFlight.Add(ctx, 1, inFlight)
		defer m.inFlight.Add(ctx, -1, inFlight)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		final := metric.WithAttributes(
			method,
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		m.duration.Record(ctx, time.Since(started).Seconds(), final)
		m.total.Add(ctx, 1, final)
	}
}

// TracingMiddleware starts a server span per request via otelgin.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
