package errnorm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// StatusCarrier is implemented by errors that carry their own HTTP status and
// caller-facing payload. Any error in the chain implementing it is classified.
type StatusCarrier interface {
	error
	StatusCode() int
	ResponsePayload() any
}

// Tracer is implemented by errors that keep a richer trace than Error().
type Tracer interface {
	Trace() string
}

const (
	minStatus = 100
	maxStatus = 599
)

// classify reports the outcome for a classified error. ok is false for
// unclassified errors, out-of-range statuses, and carriers that panic.
func classify(err error) (out outcome, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = outcome{}, false
		}
	}()

	var carrier StatusCarrier
	if !errors.As(err, &carrier) {
		return outcome{}, false
	}

	status := carrier.StatusCode()
	if status < minStatus || status > maxStatus {
		return outcome{}, false
	}

	return outcome{status: status, message: messageOf(carrier.ResponsePayload(), status)}, true
}

// messageOf extracts the caller-facing message from a response payload.
// A payload without a message falls back to the status text; an explicit
// empty message is kept.
func messageOf(payload any, status int) string {
	switch p := payload.(type) {
	case string:
		return p
	case domain.Payload:
		return p.Message
	case *domain.Payload:
		if p != nil {
			return p.Message
		}
	case map[string]string:
		if msg, found := p["message"]; found {
			return msg
		}
	case map[string]any:
		if msg, found := p["message"]; found && msg != nil {
			return flatten(msg)
		}
	}

	return http.StatusText(status)
}

// flatten renders a message value. Lists, as produced by request
// validation, are joined with "; ".
func flatten(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case []string:
		return strings.Join(m, "; ")
	case []any:
		parts := make([]string, 0, len(m))
		for _, item := range m {
			parts = append(parts, fmt.Sprint(item))
		}

		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(m)
	}
}

// traceOf returns the diagnostic text for err.
func traceOf(err error) (trace string) {
	defer func() {
		if recover() != nil {
			trace = fmt.Sprintf("%+v", err)
		}
	}()

	var tracer Tracer
	if errors.As(err, &tracer) {
		return tracer.Trace()
	}

	return fmt.Sprintf("%+v", err)
}
