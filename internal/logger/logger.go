// Package logger provides structured logging for tabclean.
//
// Logs go to stderr so they never mix with files or reports written to
// stdout. The package-level functions are safe for concurrent use.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

var (
	defaultLogger *slog.Logger
	mu            sync.RWMutex
)

func init() {
	defaultLogger = newLogger(Options{})
}

// Options configures the logger.
type Options struct {
	Debug  bool         // Enable debug level logging
	Quiet  bool         // Only show errors
	JSON   bool         // Output as JSON
	Output io.Writer    // Output destination (default: stderr)
	Logger *slog.Logger // Custom logger (overrides all other options)
}

// Level returns the minimum level implied by the options.
// Quiet wins over Debug.
func (o Options) Level() slog.Level {
	switch {
	case o.Quiet:
		return slog.LevelError
	case o.Debug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func newLogger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: opts.Level(),
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(output, handlerOpts)
	}
	return slog.New(handler)
}

// Init replaces the package logger according to opts.
func Init(opts Options) {
	l := newLogger(opts)

	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	Logger().DebugContext(ctx, msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	Logger().InfoContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	Logger().ErrorContext(ctx, msg, args...)
}

// StageFunc finishes a stage started with Stage. Both outcomes log at debug
// level with the elapsed time; reporting a failure to the user is left to
// the caller that receives the error.
type StageFunc func(err error, args ...any)

// Stage logs the start of a pipeline stage at debug level and returns a
// function that logs its outcome. Attributes passed to Stage are attached
// to both records.
//
//	done := logger.Stage(ctx, "load", "path", path)
//	t, err := load(path)
//	done(err, "rows", t.Len())
func Stage(ctx context.Context, name string, args ...any) StageFunc {
	l := With(append([]any{"stage", name}, args...)...)
	l.DebugContext(ctx, "stage started")
	start := time.Now()

	return func(err error, args ...any) {
		args = append(args, "duration", time.Since(start))
		if err != nil {
			l.DebugContext(ctx, "stage failed", append(args, "error", err)...)
			return
		}
		l.DebugContext(ctx, "stage finished", args...)
	}
}
