package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Error kinds used as metric labels.
const (
	KindDomain       = "domain"
	KindUnclassified = "unclassified"
)

// ErrorMetrics counts normalized error responses by status and kind, both as
// an OpenTelemetry counter and as a Prometheus counter.
type ErrorMetrics struct {
	otelErrors metric.Int64Counter
	promErrors *prometheus.CounterVec
}

// NewErrorMetrics creates the counters and registers the Prometheus one with
// reg. Registering twice on the same registry reuses the existing collector.
func NewErrorMetrics(meter metric.Meter, reg prometheus.Registerer) (*ErrorMetrics, error) {
	otelErrors, err := meter.Int64Counter(
		"http.server.normalized_errors",
		metric.WithDescription("Error responses written by the error normalizer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error counter: %w", err)
	}

	promErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_normalized_errors_total",
		Help: "Error responses written by the error normalizer.",
	}, []string{"status", "kind"})

	if err := reg.Register(promErrors); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("registering error counter: %w", err)
		}

		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("registering error counter: conflicting collector %T", already.ExistingCollector)
		}

		promErrors = existing
	}

	return &ErrorMetrics{otelErrors: otelErrors, promErrors: promErrors}, nil
}

// RecordError implements errnorm.Recorder.
func (m *ErrorMetrics) RecordError(ctx context.Context, status int, classified bool) {
	kind := KindUnclassified
	if classified {
		kind = KindDomain
	}

	m.otelErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("http.status_code", status),
		attribute.String("error.kind", kind),
	))
	m.promErrors.WithLabelValues(strconv.Itoa(status), kind).Inc()
}
