// Package log wraps log/slog with the verbosity levels selected by -v flags.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Verbosity levels
const (
	LevelQuiet = iota // Default: only errors and warnings
	LevelInfo         // -v: page progress, cache hits, counts
	LevelDebug        // -vv: API calls, cache operations, timing
	LevelTrace        // -vvv: response headers, raw cursors
)

const slogLevelTrace = slog.Level(-8)

var (
	mu         sync.Mutex
	verbosity  int
	logger     *slog.Logger
	output     io.Writer
	inProgress bool
)

// Initialize sets up the global logger with the specified verbosity level.
func Initialize(level int, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	verbosity = level
	output = w
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel(level),
	}))
}

func slogLevel(level int) slog.Level {
	switch {
	case level >= LevelTrace:
		return slogLevelTrace
	case level >= LevelDebug:
		return slog.LevelDebug
	case level >= LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Info logs at info level (-v)
func Info(msg string, args ...any) {
	emit(LevelInfo, slog.LevelInfo, msg, args)
}

// Debug logs at debug level (-vv)
func Debug(msg string, args ...any) {
	emit(LevelDebug, slog.LevelDebug, msg, args)
}

// Trace logs at trace level (-vvv)
func Trace(msg string, args ...any) {
	emit(LevelTrace, slogLevelTrace, msg, args)
}

// Warn logs at warn level (always visible)
func Warn(msg string, args ...any) {
	emit(LevelQuiet, slog.LevelWarn, msg, args)
}

func emit(min int, level slog.Level, msg string, args []any) {
	mu.Lock()
	defer mu.Unlock()

	if verbosity < min {
		return
	}
	clearProgress()
	logger.Log(context.Background(), level, msg, args...)
}

// Progress prints a progress message with carriage return (no newline).
// Only shown at info level or higher.
func Progress(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if verbosity >= LevelInfo {
		inProgress = true
		_, _ = fmt.Fprintf(output, "\r"+format, args...)
	}
}

// ProgressDone completes a progress line with "done" and newline.
func ProgressDone() {
	mu.Lock()
	defer mu.Unlock()

	if verbosity >= LevelInfo && inProgress {
		_, _ = fmt.Fprintln(output, " done")
		inProgress = false
	}
}

// clearProgress keeps log records from overwriting a progress line.
// Callers must hold mu.
func clearProgress() {
	if inProgress {
		_, _ = fmt.Fprintln(output)
		inProgress = false
	}
}

// IsDebug returns true if debug-level logging is enabled
func IsDebug() bool {
	return Verbosity() >= LevelDebug
}

// IsTrace returns true if trace-level logging is enabled
func IsTrace() bool {
	return Verbosity() >= LevelTrace
}

// Verbosity returns the current verbosity level
func Verbosity() int {
	mu.Lock()
	defer mu.Unlock()
	return verbosity
}

func init() {
	output = os.Stderr
	verbosity = LevelQuiet
	logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}
