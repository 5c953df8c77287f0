// Package obslog is the structured-logging façade used throughout this
// module: a thin wrapper over github.com/rs/zerolog trimmed to the handful
// of levels and the flat key/value calling convention the engine's
// components actually need. Components take the Logger interface so tests
// and library embedders can silence or redirect diagnostics.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the minimal structured-logging surface every component in this
// module depends on. Call sites pass alternating key, value pairs, mirroring
// zerolog.Event field chaining without exposing zerolog.Event itself.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, err error, kv ...any)
}

// zerologLogger adapts a zerolog.Logger to Logger.
type zerologLogger struct {
	z zerolog.Logger
}

// New builds a Logger writing JSON lines to w at the given minimum level.
// The cobra front-end does not use it; it builds a NewConsole logger from
// its --log-level flag.
func New(w io.Writer, level zerolog.Level) Logger {
	z := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &zerologLogger{z: z}
}

// NewConsole builds a Logger using zerolog's human-readable console writer,
// for interactive CLI sessions.
func NewConsole(level zerolog.Level) Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stderr}
	z := zerolog.New(cw).Level(level).With().Timestamp().Logger()
	return &zerologLogger{z: z}
}

func (l *zerologLogger) Debug(msg string, kv ...any) {
	fields(l.z.Debug(), kv).Msg(msg)
}

func (l *zerologLogger) Info(msg string, kv ...any) {
	fields(l.z.Info(), kv).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, kv ...any) {
	fields(l.z.Warn(), kv).Msg(msg)
}

func (l *zerologLogger) Error(msg string, err error, kv ...any) {
	fields(l.z.Error().Err(err), kv).Msg(msg)
}

func fields(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)        {}
func (nopLogger) Info(string, ...any)         {}
func (nopLogger) Warn(string, ...any)         {}
func (nopLogger) Error(string, error, ...any) {}

// NopLogger returns a Logger that discards everything, used as the default
// for components constructed without an explicit logger (tests, library
// callers that don't care about engine diagnostics).
func NopLogger() Logger {
	return nopLogger{}
}
