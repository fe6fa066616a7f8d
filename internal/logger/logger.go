package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// default logger instance; swapped atomically so hook goroutines can log while tests replace it
var defaultLogger atomic.Pointer[slog.Logger]

// initializes the logger from the ENVIRONMENT variable so packages can log before main runs
func init() {
	Configure(os.Getenv("ENVIRONMENT"))
}

// rebuilds the default logger for the given environment
func Configure(environment string) {
	if environment == "production" {
		defaultLogger.Store(New(os.Stdout, environment))
		return
	}

	defaultLogger.Store(New(os.Stderr, environment))
}

// builds a logger writing to w: JSON at INFO in production, text at DEBUG elsewhere
func New(w io.Writer, environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// returns the default logger instance
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// replaces the default logger (tests capture output with this)
func SetDefault(l *slog.Logger) {
	defaultLogger.Store(l)
}

// creates a logger with additional context fields
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

// returns the logger stored in ctx, or the default logger
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}

	return Default()
}

// adds logger to context
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

type loggerKey struct{}

func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

// logs an error under the "error" key
func ErrorErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Error(msg, args...)
}

// logs err and exits the process
func FatalErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Error(msg, args...)
	os.Exit(1)
}
