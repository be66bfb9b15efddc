package logger

import (
	"io"
	"log/slog"
	"os"
)

// Format represents logger output format.
type Format string

const (
	// FormatJSON outputs structured logs for production log aggregation systems.
	FormatJSON Format = "json"
	// FormatText outputs human-readable logs for development debugging.
	FormatText Format = "text"
)

// Option configures logger creation.
type Option func(*config)

// WithLevel sets the minimum level emitted by the logger.
func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets output format. Unknown formats fall back to JSON.
func WithFormat(f Format) Option {
	return func(c *config) {
		if f == FormatText {
			c.format = FormatText
			return
		}
		c.format = FormatJSON
	}
}

// WithOutput sets custom output destination, ignoring nil writers for safety.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds static attributes to every log record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		if len(attrs) > 0 {
			c.attrs = append(c.attrs, attrs...)
		}
	}
}

type config struct {
	level  slog.Level
	format Format
	output io.Writer
	attrs  []slog.Attr
}

// New creates a *slog.Logger configured by the given options.
// Defaults are production-safe: JSON format, INFO level, stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	ho := &slog.HandlerOptions{Level: c.level}

	var h slog.Handler
	if c.format == FormatText {
		h = slog.NewTextHandler(c.output, ho)
	} else {
		h = slog.NewJSONHandler(c.output, ho)
	}

	if len(c.attrs) > 0 {
		h = h.WithAttrs(c.attrs)
	}

	return slog.New(h)
}

// Discard returns a logger that drops every record. It is the default for
// services that do not receive an explicit logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetAsDefault installs l as the process-wide slog default.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
