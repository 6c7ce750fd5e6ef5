package logging

import (
	"context"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

// RedactedMarker replaces masked values, so a masked field stays
// distinguishable from one the client sent as null.
const RedactedMarker = masq.DefaultRedactMessage

// Diagnostic entries carry the caller's request body verbatim, so anything
// that looks like a credential must be masked before it reaches a sink.
var (
	sensitiveFields = []string{
		"password", "passwd", "secret", "token",
		"apiKey", "api_key",
		"accessToken", "access_token", "refreshToken", "refresh_token",
		"credential", "credentials", "authorization", "auth", "bearer",
		"cookie", "session", "privateKey", "private_key",
		"cardNumber", "card_number", "cvv",
	}

	sensitivePrefixes = []string{"secret", "private"}

	// headerFields carry credentials under an auth scheme.
	headerFields = []string{
		"authorization", "proxy-authorization", "x-api-key", "x-auth-token",
		"cookie", "set-cookie",
	}

	jwtValue = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	// Only checked under header-like names: "Basic plan" in a body is not a secret.
	schemeValues = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^bearer\s+.+$`),
		regexp.MustCompile(`(?i)^basic\s+.+$`),
	}
)

// DefaultRedactOptions returns the masq rules applied to every handler.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithCensor(fieldNamed(sensitiveFields...), markRedacted),
		masq.WithCensor(fieldPrefixed(sensitivePrefixes...), markRedacted),
		masq.WithCensor(valueMatches(jwtValue), markRedacted),
		masq.WithCensor(headerWithScheme, markRedacted),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr that masks secrets using the
// default rules plus extra.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), extra...)...)
}

func fieldNamed(names ...string) masq.Censor {
	return func(fieldName string, _ any, _ string) bool {
		for _, name := range names {
			if strings.EqualFold(fieldName, name) {
				return true
			}
		}

		return false
	}
}

func fieldPrefixed(prefixes ...string) masq.Censor {
	return func(fieldName string, _ any, _ string) bool {
		lower := strings.ToLower(fieldName)
		for _, prefix := range prefixes {
			if strings.HasPrefix(lower, prefix) {
				return true
			}
		}

		return false
	}
}

func valueMatches(re *regexp.Regexp) masq.Censor {
	return func(_ string, value any, _ string) bool {
		s, ok := value.(string)
		return ok && re.MatchString(s)
	}
}

func headerWithScheme(fieldName string, value any, tag string) bool {
	if !fieldNamed(headerFields...)(fieldName, value, tag) && !strings.HasPrefix(strings.ToLower(fieldName), "x-") {
		return false
	}

	for _, re := range schemeValues {
		if valueMatches(re)(fieldName, value, tag) {
			return true
		}
	}

	return false
}

// markRedacted writes RedactedMarker for strings and for values held in an
// interface (the map[string]any of a decoded JSON body). Other kinds fall
// through to masq's zero-value redaction.
func markRedacted(src, dst reflect.Value) bool {
	marker := reflect.ValueOf(RedactedMarker)
	target := dst.Elem()

	switch src.Kind() { //nolint:exhaustive // only string-capable kinds get the marker
	case reflect.String:
		target.SetString(RedactedMarker)
		return true
	case reflect.Interface:
		if src.IsNil() {
			// An explicit null carries no secret; keep it null.
			return true
		}

		if marker.Type().AssignableTo(target.Type()) {
			target.Set(marker)
			return true
		}
	}

	return false
}

// redactingHandler applies a ReplaceAttr to handlers that have no hook for
// it, such as the charm pretty handler.
type redactingHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func newRedactingHandler(next slog.Handler, replace func([]string, slog.Attr) slog.Attr) *redactingHandler {
	return &redactingHandler{next: next, replace: replace}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.rewrite(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, masked)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.rewrite(h.groups, a)
	}

	return &redactingHandler{next: h.next.WithAttrs(masked), replace: h.replace, groups: h.groups}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &redactingHandler{
		next:    h.next.WithGroup(name),
		replace: h.replace,
		groups:  append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}

func (h *redactingHandler) rewrite(groups []string, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		return h.replace(groups, a)
	}

	inner := a.Value.Group()
	out := make([]any, len(inner))
	for i, member := range inner {
		out[i] = h.rewrite(append(groups[:len(groups):len(groups)], a.Key), member)
	}

	return slog.Group(a.Key, out...)
}
