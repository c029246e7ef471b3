package logger

import (
	"io"
	"log/slog"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatText outputs human-readable text
	FormatText Format = "text"
	// FormatJSON outputs structured JSON
	FormatJSON Format = "json"
)

type config struct {
	level  slog.Level
	output io.Writer
	format Format
}

// Option configures a logger created by New.
type Option func(*config)

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithDebug enables debug logging.
func WithDebug() Option {
	return WithLevel(slog.LevelDebug)
}

// WithQuiet shows warnings and errors only.
func WithQuiet() Option {
	return WithLevel(slog.LevelWarn)
}
