package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// NewChannel derives a named logger from base. Records carry a "channel"
// attribute; when file is enabled they are also written to a dedicated
// rotating JSON file, so operators can tail one channel on its own.
func NewChannel(base *slog.Logger, name string, file FileConfig) *slog.Logger {
	handler := base.Handler()
	if file.Enabled {
		handler = NewMultiHandler(handler, fileHandler(file, slog.LevelInfo))
	}

	return slog.New(handler).With(slog.String("channel", name))
}

// FileChecker reports whether a log file can still be appended to.
// It implements ports.HealthChecker.
type FileChecker struct {
	name string
	path string
}

// NewFileChecker creates a checker for the log file at path.
func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{name: name, path: path}
}

// Name returns the checker name.
func (f *FileChecker) Name() string {
	return f.name
}

// Check opens the file for appending, creating it and its directory if needed.
func (f *FileChecker) Check(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("log directory for %s: %w", f.path, err)
	}

	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600) //nolint:gosec // path comes from config
	if err != nil {
		return fmt.Errorf("log file %s not writable: %w", f.path, err)
	}

	return file.Close()
}
