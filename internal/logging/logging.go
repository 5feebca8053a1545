// Package logging builds the slog logger used by every component
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format is the output format of log records
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat accepts "text" or "json"; empty means text
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q (want text or json)", s)
}

// Config holds the logging configuration
type Config struct {
	Level  slog.Level
	Format Format

	// FilePath sends logs to a file instead of stderr when set
	FilePath string

	// AddSource adds file and line to each record
	AddSource bool

	// Writer overrides the destination; used by tests
	Writer io.Writer
}

// Debug returns the configuration for --debug
func Debug(format Format) Config {
	return Config{Level: slog.LevelDebug, Format: format, AddSource: true}
}

// New creates a logger from cfg. cleanup closes the log file, if any.
func New(cfg Config) (logger *slog.Logger, cleanup func() error, err error) {
	cleanup = func() error { return nil }

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		cleanup = f.Close
	}

	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), cleanup, nil
}
