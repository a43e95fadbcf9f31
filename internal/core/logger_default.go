package core

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Log output formats selectable with --log-format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTint = "tint"
)

// DefaultLogger, Logger arayüzünün slog tabanlı implementasyonudur.
// Biçim (text/json/tint) sadece handler seçimini değiştirir.
type DefaultLogger struct {
	level   LogLevel
	slevel  *slog.LevelVar
	handler *slog.Logger
	output  io.Writer
}

func NewDefaultLogger(output io.Writer, level LogLevel, format string) *DefaultLogger {
	slevel := new(slog.LevelVar)
	slevel.Set(toSlogLevel(level))

	var h slog.Handler
	switch format {
	case FormatJSON:
		h = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: slevel})
	case FormatTint:
		h = tint.NewHandler(output, &tint.Options{
			Level:      slevel,
			TimeFormat: time.Kitchen,
		})
	default:
		h = slog.NewTextHandler(output, &slog.HandlerOptions{Level: slevel})
	}

	return &DefaultLogger{
		level:   level,
		slevel:  slevel,
		handler: slog.New(h),
		output:  output,
	}
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelTrace, LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *DefaultLogger) Trace(msg string, args ...any) {
	if l.level <= LevelTrace {
		l.handler.Debug("TRACE: "+msg, args...)
	}
}

func (l *DefaultLogger) Debug(msg string, args ...any) { l.handler.Debug(msg, args...) }
func (l *DefaultLogger) Info(msg string, args ...any)  { l.handler.Info(msg, args...) }
func (l *DefaultLogger) Warn(msg string, args ...any)  { l.handler.Warn(msg, args...) }
func (l *DefaultLogger) Error(msg string, args ...any) { l.handler.Error(msg, args...) }

func (l *DefaultLogger) With(args ...any) Logger {
	return &DefaultLogger{
		level:   l.level,
		slevel:  l.slevel,
		handler: l.handler.With(args...),
		output:  l.output,
	}
}

func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.level = level
	l.slevel.Set(toSlogLevel(level))
}
