package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/error-normalizer/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                { return s.name }
func (s stubChecker) Check(context.Context) error { return s.err }

func newHealthEngine(t *testing.T, gatherer prometheus.Gatherer, checkers ...ports.HealthChecker) *gin.Engine {
	t.Helper()

	registry := ports.NewHealthRegistry()
	for _, c := range checkers {
		require.NoError(t, registry.Register(c))
	}

	engine := gin.New()
	NewHealthHandler(registry, NewBuildInfo("1.2.3", "def456", "2024-02-01T12:00:00Z"), gatherer).
		RegisterHealthRoutes(engine)

	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))

	return w
}

func TestLiveness(t *testing.T) {
	w := get(newHealthEngine(t, nil, stubChecker{name: "memory-store", err: errors.New("closed")}), "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name           string
		checkers       []ports.HealthChecker
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no checks registered",
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"healthy"`,
		},
		{
			name: "all checks healthy",
			checkers: []ports.HealthChecker{
				stubChecker{name: "memory-store"},
				stubChecker{name: "http-log"},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"memory-store":{"status":"healthy"`,
		},
		{
			name: "one check unhealthy",
			checkers: []ports.HealthChecker{
				stubChecker{name: "memory-store"},
				stubChecker{name: "http-log", err: errors.New("permission denied")},
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newHealthEngine(t, nil, tt.checkers...), "/-/ready")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestBuildInfo(t *testing.T) {
	w := get(newHealthEngine(t, nil), "/-/build")
	require.Equal(t, http.StatusOK, w.Code)

	var resp BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, BuildInfo{
		Version:   "1.2.3",
		Commit:    "def456",
		BuildTime: "2024-02-01T12:00:00Z",
		GoVersion: runtime.Version(),
	}, resp)
}

func TestMetrics_ServesGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "checks_total", Help: "checks"})
	reg.MustRegister(counter)
	counter.Inc()

	w := get(newHealthEngine(t, reg), "/-/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "checks_total 1")
}
