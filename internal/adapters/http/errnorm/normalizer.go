// Package errnorm is the terminal error handler of the HTTP pipeline.
//
// Every failed request ends in exactly one call to Normalizer.Handle, which
// classifies the error, logs unexpected failures, and writes the uniform
// envelope:
//
//	{"code":404,"message":"...","timestamp":"2006-01-02 15:04:05","path":"GET /users/42"}
//
// Errors exposing StatusCode and ResponsePayload (see StatusCarrier) pass
// through with their own status and message and are not logged. Everything
// else becomes a 500 with a fixed message; the original error text and trace
// only reach the diagnostic log.
package errnorm

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/dto"
)

const (
	// UnknownErrorMessage is the only message callers see for unclassified failures.
	UnknownErrorMessage = "未知错误"

	// TimestampLayout formats the envelope timestamp as YYYY-MM-DD HH:mm:ss.
	TimestampLayout = "2006-01-02 15:04:05"
)

// ResponseSink receives the serialized envelope. *gin.Context satisfies it.
type ResponseSink interface {
	JSON(code int, obj any)
}

// WriteTracker is implemented by sinks that know whether part of a response
// has already gone out.
type WriteTracker interface {
	Written() bool
}

// Recorder counts normalized errors.
type Recorder interface {
	RecordError(ctx context.Context, status int, classified bool)
}

// Normalizer converts errors into the uniform response envelope.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	logger   *slog.Logger
	now      func() time.Time
	location *time.Location
	recorder Recorder
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the sink for diagnostic entries.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithClock overrides the time source used for envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLocation sets the timezone timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// WithRecorder attaches an error counter.
func WithRecorder(r Recorder) Option {
	return func(n *Normalizer) {
		n.recorder = r
	}
}

// New creates a Normalizer. Without options it logs to slog.Default and
// renders process-local wall-clock time.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		logger:   slog.Default(),
		now:      time.Now,
		location: time.Local,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// outcome is the classified status and caller-facing message.
type outcome struct {
	status  int
	message string
}

var unknownOutcome = outcome{status: http.StatusInternalServerError, message: UnknownErrorMessage}

// Handle writes exactly one envelope for err to w. It never panics: any fault
// while classifying or writing a domain error degrades to the 500 path. When
// the failed write had already started a response, the fault is only logged.
func (n *Normalizer) Handle(ctx context.Context, err error, req Request, w ResponseSink) {
	out, classified := classify(err)
	if classified && n.write(w, out, req) {
		n.record(ctx, out.status, true)
		return
	}

	n.logDiagnostic(ctx, err, req)
	n.record(ctx, unknownOutcome.status, false)

	if classified && responseStarted(w) {
		return
	}

	n.write(w, unknownOutcome, req)
}

func responseStarted(w ResponseSink) (started bool) {
	defer func() {
		if recover() != nil {
			started = false
		}
	}()

	t, ok := w.(WriteTracker)

	return ok && t.Written()
}

// envelope builds the response body for the given outcome at the current time.
func (n *Normalizer) envelope(out outcome, req Request) dto.ErrorResponse {
	return dto.ErrorResponse{
		Code:      out.status,
		Message:   out.message,
		Timestamp: n.now().In(n.location).Format(TimestampLayout),
		Path:      req.Path(),
	}
}

// write reports whether the envelope reached the sink without panicking.
func (n *Normalizer) write(w ResponseSink, out outcome, req Request) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	w.JSON(out.status, n.envelope(out, req))

	return true
}

func (n *Normalizer) logDiagnostic(ctx context.Context, err error, req Request) {
	defer func() { _ = recover() }()

	n.logger.LogAttrs(ctx, slog.LevelError, diagnosticMessage,
		diagnosticAttrs(unknownOutcome.status, req, traceOf(err))...)
}

func (n *Normalizer) record(ctx context.Context, status int, classified bool) {
	if n.recorder == nil {
		return
	}

	defer func() { _ = recover() }()

	n.recorder.RecordError(ctx, status, classified)
}
