// Package logging builds the slog loggers used by the sentrystack CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Format specifies the output format for log records.
type Format string

const (
	// FormatText is human-readable, colorized on terminals.
	FormatText Format = "text"
	// FormatJSON is one JSON object per record.
	FormatJSON Format = "json"
)

// Config holds the configuration for creating a logger.
type Config struct {
	// Level is the minimum level logged.
	Level slog.Level
	// Format is the record format. Unknown formats fall back to text.
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger with the given configuration.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = NewHandler(output, opts)
	}

	return slog.New(handler)
}

// NewDiscard creates a logger that discards all output.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LevelFor maps the -v count to a level: warnings by default, info at
// -v and debug at -vv. quiet restricts the output to errors.
func LevelFor(verbosity int, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}
