// Package logging builds the jsonsort diagnostic logger from the
// configuration and carries it through a context.
//
// Diagnostics are separate from the run report: the report is written by the
// CLI, while log records explain why a path was skipped or a file failed.
// Both go to stderr.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/hupe1980/jsonsort/internal/config"
)

type ctxKey struct{}

// New creates a logger configured according to cfg that writes to w.
//
// Text records omit the timestamp, since a run takes milliseconds and its
// records are read next to the report. Verbose output keeps the timestamp and
// records the source location of each message. JSON records are always
// complete.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.EffectiveLogLevel()),
		AddSource: cfg.Verbose,
	}

	switch cfg.LogFormat {
	case config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		if !cfg.Verbose {
			opts.ReplaceAttr = dropTime
		}

		return slog.New(slog.NewTextHandler(w, opts))
	}
}

// Setup creates a logger with New and installs it as the process-wide
// default, so packages without a context still log consistently.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := New(cfg, w)
	slog.SetDefault(logger)

	return logger
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}

	return a
}

// Discard returns a logger that drops every record. It does not touch the
// process-wide default.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// discardHandler discards all log output; it mirrors slog.DiscardHandler,
// which needs Go 1.24.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// ParseLevel converts a configured level name to slog.Level. Unknown names
// fall back to info; the configuration rejects them before this is reached.
func ParseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewContext returns a child context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from ctx, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.Default()
}
