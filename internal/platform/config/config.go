// Package config loads the service configuration from layered sources with
// koanf and validates it before anything starts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "APP_"

// ConfigDir holds base.yaml and the per-profile files.
const ConfigDir = "configs"

const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	// Rotation defaults shared by the main log file and the http channel.
	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Errors    ErrorsConfig    `koanf:"errors"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`

	// HTTP configures the channel that receives diagnostic entries for
	// unexpected request failures.
	HTTP LogFileConfig `koanf:"http"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// ErrorsConfig controls the error envelope.
type ErrorsConfig struct {
	// Timezone is the IANA zone envelope timestamps are rendered in.
	// Empty means the process-local zone.
	Timezone string `koanf:"timezone" validate:"omitempty,timezone"`
}

// Location resolves Timezone. An empty Timezone yields time.Local.
func (e ErrorsConfig) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", e.Timezone, err)
	}

	return loc, nil
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// AuthConfig contains gateway header authentication settings. The gateway
// validates credentials and forwards the subject and roles as headers.
type AuthConfig struct {
	Enabled       bool   `koanf:"enabled"`
	SubjectHeader string `koanf:"subject_header" validate:"required_if=Enabled true"`
	RolesHeader   string `koanf:"roles_header"`
}

// defaults lists every key, so the env mapper can resolve it.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "error-normalizer",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "15s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"log.http.enabled":     false,
		"log.http.path":        "./logs/http-error.log",
		"log.http.max_size":    DefaultLogFileMaxSizeMB,
		"log.http.max_backups": DefaultLogFileMaxBackups,
		"log.http.max_age":     DefaultLogFileMaxAgeDays,
		"log.http.compress":    true,

		"errors.timezone": "",

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "error-normalizer",
		"telemetry.sampling_rate": 1.0,

		"auth.enabled":        false,
		"auth.roles_header":   "X-User-Roles",
		"auth.subject_header": "X-User-ID",
	}
}

// Load merges, lowest precedence first: built-in defaults, configs/base.yaml,
// configs/<profile>.yaml, then APP_* environment variables. Missing files are
// skipped.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, filepath.Join(ConfigDir, "base.yaml")); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, filepath.Join(ConfigDir, profile+".yaml")); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper resolves APP_SERVER_REQUEST_TIMEOUT to server.request_timeout.
// Underscores are ambiguous, so names are matched against the keys already
// known; unknown names nest on every underscore.
func envKeyMapper(known []string) func(string) string {
	byEnvName := make(map[string]string, len(known))
	for _, key := range known {
		byEnvName[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		flat := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if key, ok := byEnvName[flat]; ok {
			return key
		}

		return strings.ReplaceAll(flat, "_", ".")
	}
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
