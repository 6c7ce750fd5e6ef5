package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/errnorm"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/handlers"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/memory"
	"github.com/jsamuelsen/error-normalizer/internal/app"
	"github.com/jsamuelsen/error-normalizer/internal/domain"
	"github.com/jsamuelsen/error-normalizer/internal/platform/config"
	"github.com/jsamuelsen/error-normalizer/internal/platform/telemetry"
	"github.com/jsamuelsen/error-normalizer/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 3, 9, 17, 5, 42, 0, time.UTC)

// lockedBuffer collects the diagnostic channel output.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

type stackOptions struct {
	auth           *config.AuthConfig
	maxRequestSize int64
}

// stack is the full router over the memory store, with a fixed clock, a
// captured diagnostic channel and a private metrics registry.
type stack struct {
	engine   *gin.Engine
	store    *memory.Store
	httpLog  *lockedBuffer
	registry *prometheus.Registry
}

func buildStack(opts stackOptions) (*stack, error) {
	if opts.maxRequestSize == 0 {
		opts.maxRequestSize = 1 << 20
	}

	s := &stack{
		store:    memory.NewStore(),
		httpLog:  &lockedBuffer{},
		registry: prometheus.NewRegistry(),
	}

	errMetrics, err := telemetry.NewErrorMetrics(noop.NewMeterProvider().Meter("test"), s.registry)
	if err != nil {
		return nil, err
	}

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return fixedNow }

	normalizer := errnorm.New(
		errnorm.WithLogger(slog.New(slog.NewJSONHandler(s.httpLog, nil))),
		errnorm.WithClock(clock),
		errnorm.WithLocation(time.UTC),
		errnorm.WithRecorder(errMetrics),
	)

	registry := ports.NewHealthRegistry()
	if err := registry.Register(s.store); err != nil {
		return nil, err
	}

	s.engine = gin.New()
	SetupRouter(s.engine, RouterConfig{
		Normalizer:     normalizer,
		ServiceName:    "error-normalizer-test",
		Auth:           opts.auth,
		RequestTimeout: time.Second,
		MaxRequestSize: opts.maxRequestSize,
		HealthHandler:  handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "", ""), s.registry),
		UserHandler: handlers.NewUserHandler(app.NewUserService(app.UserServiceConfig{
			Users: s.store, Logger: discard, Now: clock,
		})),
		OrderHandler: handlers.NewOrderHandler(app.NewOrderService(app.OrderServiceConfig{
			Users: s.store, Orders: s.store, Logger: discard, Now: clock,
		})),
	})

	registerRaiseRoutes(s.engine)

	return s, nil
}

// registerRaiseRoutes adds routes that raise errors directly, outside the
// demo API.
func registerRaiseRoutes(engine *gin.Engine) {
	engine.GET("/users/:id", func(c *gin.Context) {
		dto.Fail(c, domain.NewErrorWithMessage(http.StatusNotFound, "Not Found"))
	})

	engine.POST("/orders", func(c *gin.Context) {
		var order *domain.Order
		c.JSON(http.StatusOK, order.TotalQuantity())
	})

	engine.GET("/empty", func(c *gin.Context) {
		dto.Fail(c, domain.NewError(http.StatusBadRequest, ""))
	})

	engine.GET("/fail", func(c *gin.Context) {
		dto.Fail(c, io.ErrUnexpectedEOF)
	})
}
