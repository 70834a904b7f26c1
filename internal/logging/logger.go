// Package logging defines the structured-logging interface used across the
// project together with slog and zap backed implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "refreshing credentials", "path", req.Path)
type Logger interface {
	// Debug logs diagnostic detail that is off by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the named backend writing to w. An empty backend
// selects slog. debug lowers the minimum level to debug.
func New(backend string, w io.Writer, debug bool) (Logger, error) {
	switch backend {
	case "", BackendSlog:
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))), nil
	case BackendZap:
		return NewZapLoggerTo(w, debug), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ErrorLog returns a *log.Logger that writes through l at error level, or
// nil when l's backend offers no such bridge.
func ErrorLog(l Logger) *log.Logger {
	if s, ok := l.(interface{ StdLogger() *log.Logger }); ok {
		return s.StdLogger()
	}
	return nil
}
