// Package logging provides structured logging for both CLI and GUI modes.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with the output format chosen in configuration.
type Logger struct {
	zlog   zerolog.Logger
	format string // "text" or "json"
	output io.Writer
}

// New creates a logger writing to w. An empty or unknown level means info.
func New(level, format string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	l := &Logger{format: format}
	l.build(w)
	l.zlog = l.zlog.Level(ParseLevel(level))
	return l
}

// NewDefault creates an info-level console logger on stderr.
func NewDefault() *Logger {
	return New("info", "text", os.Stderr)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop(), format: "text", output: io.Discard}
}

func (l *Logger) build(w io.Writer) {
	l.output = w
	if l.format == "json" {
		l.zlog = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	l.zlog = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()
}

// ParseLevel maps a config level onto zerolog, case-insensitively.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// With returns a child logger carrying the given string fields, given as key/value pairs.
func (l *Logger) With(kv ...string) *Logger {
	ctx := l.zlog.With()
	for i := 0; i+1 < len(kv); i += 2 {
		ctx = ctx.Str(kv[i], kv[i+1])
	}
	return &Logger{zlog: ctx.Logger(), format: l.format, output: l.output}
}

// SetLevel changes the minimum level of this logger.
func (l *Logger) SetLevel(level string) {
	l.zlog = l.zlog.Level(ParseLevel(level))
}

// SetOutput changes the output writer for the logger.
// This is useful for redirecting logs around progress bars.
func (l *Logger) SetOutput(w io.Writer) {
	lvl := l.zlog.GetLevel()
	l.build(w)
	l.zlog = l.zlog.Level(lvl)
}

// Output returns the current output writer.
func (l *Logger) Output() io.Writer {
	return l.output
}

// Debugf logs a debug message with printf-style formatting.
func (l *Logger) Debugf(format string, args ...any) {
	l.zlog.Debug().Msgf(format, args...)
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...any) {
	l.zlog.Info().Msgf(format, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (l *Logger) Warnf(format string, args ...any) {
	l.zlog.Warn().Msgf(format, args...)
}

// Errorf logs an error message with printf-style formatting.
func (l *Logger) Errorf(format string, args ...any) {
	l.zlog.Error().Msgf(format, args...)
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *Logger) *Logger {
	if l == nil {
		return Nop()
	}
	return l
}
