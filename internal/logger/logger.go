// Package logger provides a thin wrapper around zerolog.Logger with the
// convenience constructor used across the application. Components that only
// need leveled formatted output take the small auth.Logger interface instead
// of depending on zerolog directly.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available while
// allowing helper methods without touching the upstream type.
type Logger struct {
	zerolog.Logger
}

// New constructs a JSON logger for the given component label.
func New(component string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("component", component).
		Timestamp().
		Logger()

	return &Logger{l}
}

// Named returns a child logger scoped to a sub-component.
func (l *Logger) Named(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}

// Debugf logs at debug level with fmt-style formatting.
func (l *Logger) Debugf(format string, args ...any) {
	l.Logger.Debug().Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.Logger.Info().Msgf(format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.Logger.Warn().Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.Logger.Error().Msgf(format, args...)
}
