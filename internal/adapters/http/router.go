package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/errnorm"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/handlers"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/middleware"
	"github.com/jsamuelsen/error-normalizer/internal/domain"
	"github.com/jsamuelsen/error-normalizer/internal/platform/config"
	"github.com/jsamuelsen/error-normalizer/internal/platform/telemetry"
)

// AdminRole may list all users when auth is enabled.
const AdminRole = "admin"

// RouterConfig contains everything SetupRouter wires together.
type RouterConfig struct {
	// Normalizer renders every failed request.
	Normalizer *errnorm.Normalizer

	// ServiceName names the tracing spans.
	ServiceName string

	// Metrics records request metrics. Nil disables them.
	Metrics *telemetry.Metrics

	// Auth configures the gateway headers. Nil or disabled leaves the API open.
	Auth *config.AuthConfig

	// RequestTimeout bounds API requests. Zero disables the deadline.
	RequestTimeout time.Duration

	// MaxRequestSize bounds buffered request bodies. Zero disables buffering.
	MaxRequestSize int64

	HealthHandler *handlers.HealthHandler
	UserHandler   *handlers.UserHandler
	OrderHandler  *handlers.OrderHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in this order (outermost first):
//  1. Request ID and Correlation ID
//  2. OpenTelemetry tracing, then request metrics
//  3. Logging (skips health endpoints)
//  4. Error normalizer, which renders c.Errors once the rest returns
//  5. Recovery, turning panics into errors for the normalizer
//  6. Body snapshot
//
// API routes additionally get the request timeout. Unknown routes and wrong
// methods become 404 and 405 domain errors.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
	)

	if cfg.Metrics != nil {
		engine.Use(telemetry.Middleware(cfg.Metrics))
	}

	engine.Use(
		middleware.Logging(),
		errnorm.Middleware(cfg.Normalizer),
		middleware.Recovery(),
	)

	if cfg.MaxRequestSize > 0 {
		engine.Use(middleware.BodySnapshot(cfg.MaxRequestSize))
	}

	engine.NoRoute(func(c *gin.Context) {
		dto.Fail(c, domain.NewRouteNotFoundError(c.Request.Method, errnorm.OriginalURL(c.Request)))
	})
	engine.NoMethod(func(c *gin.Context) {
		dto.Fail(c, domain.NewMethodNotAllowedError(c.Request.Method, errnorm.OriginalURL(c.Request)))
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.RequestTimeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

// setupAPIRoutes registers the business routes. With auth enabled, orders
// need an authenticated caller and listing users needs the admin role.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	var orderGuards, listGuards []gin.HandlerFunc

	if cfg.Auth != nil && cfg.Auth.Enabled {
		orderGuards = append(orderGuards, middleware.RequireAuth(cfg.Auth))
		listGuards = append(listGuards, middleware.RequireRole(cfg.Auth, AdminRole))
	}

	if cfg.UserHandler != nil {
		cfg.UserHandler.RegisterUserRoutes(rg, listGuards...)
	}

	if cfg.OrderHandler != nil {
		cfg.OrderHandler.RegisterOrderRoutes(rg, orderGuards...)
	}
}
