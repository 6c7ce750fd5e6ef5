package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// featureContext holds per-scenario state for the step definitions.
type featureContext struct {
	stack    *stack
	response *httptest.ResponseRecorder
}

func (fc *featureContext) theServiceIsRunning() error {
	s, err := buildStack(stackOptions{})
	if err != nil {
		return fmt.Errorf("building service: %w", err)
	}

	fc.stack = s

	return nil
}

func (fc *featureContext) aUserExists(name, email string) error {
	return fc.stack.store.CreateUser(context.Background(), &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: fixedNow,
	})
}

func (fc *featureContext) iSend(method, target string) error {
	return fc.send(method, target, "")
}

func (fc *featureContext) iSendWithBody(method, target string, body *godog.DocString) error {
	return fc.send(method, target, body.Content)
}

func (fc *featureContext) send(method, target, body string) error {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	fc.response = httptest.NewRecorder()
	fc.stack.engine.ServeHTTP(fc.response, req)

	return nil
}

func (fc *featureContext) theResponseStatusShouldBe(expected int) error {
	if fc.response.Code != expected {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expected, fc.response.Code, fc.response.Body.String())
	}

	return nil
}

func (fc *featureContext) theResponseBodyShouldBe(expected *godog.DocString) error {
	if got := fc.response.Body.String(); got != strings.TrimSpace(expected.Content) {
		return fmt.Errorf("unexpected body.\nexpected: %s\n     got: %s", expected.Content, got)
	}

	return nil
}

func (fc *featureContext) envelopeField(field, expected string) error {
	var envelope map[string]any
	if err := json.Unmarshal(fc.response.Body.Bytes(), &envelope); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}

	if got, ok := envelope[field].(string); !ok || got != expected {
		return fmt.Errorf("expected %s %q, got %v", field, expected, envelope[field])
	}

	return nil
}

func (fc *featureContext) theResponseMessageShouldBe(expected string) error {
	return fc.envelopeField("message", expected)
}

func (fc *featureContext) theResponsePathShouldBe(expected string) error {
	return fc.envelopeField("path", expected)
}

func (fc *featureContext) entries() ([]map[string]any, error) {
	var out []map[string]any

	dec := json.NewDecoder(bytes.NewBufferString(fc.stack.httpLog.String()))
	for {
		var entry map[string]any

		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, fmt.Errorf("diagnostic log is not JSON lines: %w", err)
		}

		out = append(out, entry)
	}
}

func (fc *featureContext) diagnosticEntriesShouldBeLogged(expected int) error {
	entries, err := fc.entries()
	if err != nil {
		return err
	}

	if len(entries) != expected {
		return fmt.Errorf("expected %d diagnostic entries, got %d: %v", expected, len(entries), entries)
	}

	return nil
}

func (fc *featureContext) onlyEntry() (map[string]any, error) {
	entries, err := fc.entries()
	if err != nil {
		return nil, err
	}

	if len(entries) != 1 {
		return nil, fmt.Errorf("expected exactly one diagnostic entry, got %d", len(entries))
	}

	return entries[0], nil
}

func (fc *featureContext) theDiagnosticFieldShouldBe(field, expected string) error {
	entry, err := fc.onlyEntry()
	if err != nil {
		return err
	}

	if got := fmt.Sprint(entry[field]); got != expected {
		return fmt.Errorf("expected %s %q, got %q", field, expected, got)
	}

	return nil
}

func (fc *featureContext) theDiagnosticFieldShouldContain(field, expected string) error {
	entry, err := fc.onlyEntry()
	if err != nil {
		return err
	}

	if got := fmt.Sprint(entry[field]); !strings.Contains(got, expected) {
		return fmt.Errorf("expected %s to contain %q, got %q", field, expected, got)
	}

	return nil
}

func (fc *featureContext) theDiagnosticFieldShouldEqualJSON(field string, expected *godog.DocString) error {
	entry, err := fc.onlyEntry()
	if err != nil {
		return err
	}

	var want any
	if err := json.Unmarshal([]byte(expected.Content), &want); err != nil {
		return fmt.Errorf("expected value is not JSON: %w", err)
	}

	if !reflect.DeepEqual(want, entry[field]) {
		return fmt.Errorf("expected %s %v, got %v", field, want, entry[field])
	}

	return nil
}

func initializeScenario(ctx *godog.ScenarioContext) {
	fc := &featureContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*fc = featureContext{}
		return ctx, nil
	})

	ctx.Step(`^the service is running$`, fc.theServiceIsRunning)
	ctx.Step(`^a user "([^"]*)" with email "([^"]*)" exists$`, fc.aUserExists)
	ctx.Step(`^I send "([A-Z]+)" to "([^"]*)"$`, fc.iSend)
	ctx.Step(`^I send "([A-Z]+)" to "([^"]*)" with body:$`, fc.iSendWithBody)
	ctx.Step(`^the response status should be (\d+)$`, fc.theResponseStatusShouldBe)
	ctx.Step(`^the response body should be:$`, fc.theResponseBodyShouldBe)
	ctx.Step(`^the response message should be "([^"]*)"$`, fc.theResponseMessageShouldBe)
	ctx.Step(`^the response path should be "([^"]*)"$`, fc.theResponsePathShouldBe)
	ctx.Step(`^(\d+) diagnostic entr(?:y|ies) should be logged$`, fc.diagnosticEntriesShouldBeLogged)
	ctx.Step(`^the diagnostic field "([^"]*)" should be "([^"]*)"$`, fc.theDiagnosticFieldShouldBe)
	ctx.Step(`^the diagnostic field "([^"]*)" should contain "([^"]*)"$`, fc.theDiagnosticFieldShouldContain)
	ctx.Step(`^the diagnostic field "([^"]*)" should equal JSON:$`, fc.theDiagnosticFieldShouldEqualJSON)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/features"},
			TestingT: t,
			Strict:   true,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
