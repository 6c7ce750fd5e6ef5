// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/errnorm"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/handlers"
	"github.com/jsamuelsen/error-normalizer/internal/adapters/memory"
	"github.com/jsamuelsen/error-normalizer/internal/app"
	"github.com/jsamuelsen/error-normalizer/internal/platform/config"
	"github.com/jsamuelsen/error-normalizer/internal/platform/logging"
	"github.com/jsamuelsen/error-normalizer/internal/platform/telemetry"
	"github.com/jsamuelsen/error-normalizer/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// httpChannel names the logger that receives diagnostic entries.
const httpChannel = "http"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File:    fileConfig(cfg.Log.File),
	})
	logging.SetDefault(logger)

	httpLogger := logging.NewChannel(logger, httpChannel, fileConfig(cfg.Log.HTTP))

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	location, err := cfg.Errors.Location()
	if err != nil {
		return fmt.Errorf("resolving error timezone: %w", err)
	}

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	meter := telProvider.Meter(telemetry.InstrumentationName)

	requestMetrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("creating request metrics: %w", err)
	}

	errorMetrics, err := telemetry.NewErrorMetrics(meter, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("creating error metrics: %w", err)
	}

	store := memory.NewStore()
	defer func() { _ = store.Close() }()

	healthRegistry := ports.NewHealthRegistry()
	checkers := []ports.HealthChecker{store}

	if cfg.Log.HTTP.Enabled {
		checkers = append(checkers, logging.NewFileChecker("http-log", cfg.Log.HTTP.Path))
	}

	for _, checker := range checkers {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	userService := app.NewUserService(app.UserServiceConfig{Users: store, Logger: logger})
	orderService := app.NewOrderService(app.OrderServiceConfig{Users: store, Orders: store, Logger: logger})

	normalizer := errnorm.New(
		errnorm.WithLogger(httpLogger),
		errnorm.WithLocation(location),
		errnorm.WithRecorder(errorMetrics),
	)

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Normalizer:     normalizer,
		ServiceName:    cfg.Telemetry.ServiceName,
		Metrics:        requestMetrics,
		Auth:           &cfg.Auth,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		HealthHandler:  handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime), prometheus.DefaultGatherer),
		UserHandler:    handlers.NewUserHandler(userService),
		OrderHandler:   handlers.NewOrderHandler(orderService),
	})

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("serving: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

func fileConfig(c config.LogFileConfig) logging.FileConfig {
	return logging.FileConfig{
		Enabled:    c.Enabled,
		Path:       c.Path,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}
