// Package logging wraps charmbracelet/log with a process-wide default logger
// and context propagation.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Levels accepted by ParseLevel, lowest first.
var Levels = []string{"debug", "info", "warn", "error"}

//nolint:gochecknoglobals // process-wide default logger
var defaultLogger atomic.Pointer[log.Logger]

// ParseLevel converts a level name to a log.Level. "warning" is accepted as
// an alias of "warn"; the empty string means info.
func ParseLevel(name string) (log.Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "":
		return log.InfoLevel, nil
	case "warning":
		return log.WarnLevel, nil
	}
	level, err := log.ParseLevel(normalized)
	if err != nil || level < log.DebugLevel || level > log.ErrorLevel {
		return log.InfoLevel, fmt.Errorf("invalid log level %q (want one of %s)", name, strings.Join(Levels, ", "))
	}
	return level, nil
}

// New creates a stderr logger. An unknown level falls back to info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w without timestamps or caller
// information.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	parsed, err := ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           parsed,
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// NewInteractive creates the logger used for messages a command prints as
// its result, prefixed with the program name.
func NewInteractive() *log.Logger {
	logger := New("info")
	logger.SetPrefix("kbdfmt")
	return logger
}

// Default returns the process-wide logger, creating it on first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the default logger. Unknown names are
// ignored and reported as an error.
func SetLevel(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	Default().SetLevel(parsed)
	return nil
}
