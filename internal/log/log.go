// Package log provides categorised structured logging for lexicon.
//
// All output goes through a single slog.Logger. Until Init is called the
// logger discards everything, so library code can log unconditionally.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Category tags a log record with the subsystem that emitted it.
type Category string

const (
	CatConfig    Category = "config"
	CatDB        Category = "db"
	CatInventory Category = "inventory"
	CatGen       Category = "gen"
	CatCLI       Category = "cli"
	CatWatch     Category = "watch"
	CatHTTP      Category = "http"
)

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile *os.File
)

// Options configures the global logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File, when set, receives log output instead of Output.
	File string
	// Output defaults to os.Stderr.
	Output io.Writer
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Init installs the global logger. The returned function closes the log
// file, if any, and restores the discarding logger.
func Init(opts Options) (func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var f *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err = os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path comes from user config
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, handlerOpts)
	} else {
		h = slog.NewTextHandler(out, handlerOpts)
	}

	mu.Lock()
	logger = slog.New(h)
	logFile = f
	mu.Unlock()

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if logFile != nil {
			err := logFile.Close()
			logFile = nil
			return err
		}
		return nil
	}, nil
}

// L returns the current global logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func emit(level slog.Level, cat Category, msg string, args []any) {
	L().Log(context.Background(), level, msg, append([]any{"cat", string(cat)}, args...)...)
}

// Debug logs at debug level.
func Debug(cat Category, msg string, args ...any) { emit(slog.LevelDebug, cat, msg, args) }

// Info logs at info level.
func Info(cat Category, msg string, args ...any) { emit(slog.LevelInfo, cat, msg, args) }

// Warn logs at warn level.
func Warn(cat Category, msg string, args ...any) { emit(slog.LevelWarn, cat, msg, args) }

// Error logs at error level.
func Error(cat Category, msg string, args ...any) { emit(slog.LevelError, cat, msg, args) }

// ErrorErr logs msg at error level with err attached under the "error" key.
func ErrorErr(cat Category, msg string, err error, args ...any) {
	emit(slog.LevelError, cat, msg, append([]any{"error", err}, args...))
}
