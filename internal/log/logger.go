package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.Nop()
	loggerLock sync.RWMutex
)

// Options configures the process-wide logger.
type Options struct {
	// Path of the log file. The terminal belongs to the UI, so nothing is
	// written to stdout. Empty disables logging.
	File        string
	Level       string
	Development bool
}

// Init opens the log file and installs the logger. The returned closer
// flushes and closes the file.
func Init(opts Options) (io.Closer, error) {
	if opts.File == "" {
		SetOutput(io.Discard, opts.Level, false)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	SetOutput(f, opts.Level, opts.Development)
	return f, nil
}

// SetOutput replaces the logger's writer. Development mode uses the
// human-readable console format.
func SetOutput(w io.Writer, level string, development bool) {
	out := w
	if development {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: time.Kitchen,
		}
	}
	l := zerolog.New(out).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Logger()

	loggerLock.Lock()
	logger = l
	loggerLock.Unlock()
}

// SetLevel sets the global log level at runtime
func SetLevel(levelStr string) {
	level := parseLogLevel(levelStr)
	loggerLock.Lock()
	logger = logger.Level(level)
	loggerLock.Unlock()
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	loggerLock.RLock()
	l := logger
	loggerLock.RUnlock()
	return &l
}

// Debug logs a debug message
func Debug() *zerolog.Event { return current().Debug() }

// Info logs an info message
func Info() *zerolog.Event { return current().Info() }

// Warn logs a warning message
func Warn() *zerolog.Event { return current().Warn() }

// Error logs an error message
func Error() *zerolog.Event { return current().Error() }
