// Package logger wraps zerolog.Logger with the constructors and context
// helpers used across the application.
//
// Request handlers obtain a request-scoped logger (carrying the request id)
// via FromContext; background components receive a *Logger at construction.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

// NewLogger builds a JSON logger writing to stdout, tagged with role
// (e.g. "server", "cli").
func NewLogger(role string, level string) *Logger {
	return newLogger(os.Stdout, role, level)
}

func newLogger(w io.Writer, role string, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(w).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{l}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Child returns a logger inheriting the receiver's fields with one extra
// string field.
func (l *Logger) Child(key, value string) *Logger {
	return &Logger{l.With().Str(key, value).Logger()}
}

// FromContext returns the logger attached by WithContext. When nothing is
// attached a disabled logger is returned, never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*zerolog.Ctx(ctx)}
}

// Printf adapts the logger to printf-style consumers (gorm, backlite).
func (l *Logger) Printf(format string, args ...any) {
	l.Info().Msgf(format, args...)
}
