// Package logger provides the diagnostic logger for bump.
// Diagnostics go to stderr (or a log file) and never mix with the release
// report printed on stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLogLevel names the environment variable read when no level flag is given.
const EnvLogLevel = "BUMP_LOG_LEVEL"

// Logger is the global logger instance used throughout bump.
var Logger *log.Logger

func init() {
	Logger = newLogger(os.Stderr, log.WarnLevel)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "bump"})
	l.SetTimeFormat("")
	l.SetLevel(level)
	return l
}

// Configure sets the level and destination of the global logger.
// Level precedence: debug flag > level argument > BUMP_LOG_LEVEL > warn.
// A non-empty logFile is opened for appending and returned so the caller can
// close it.
func Configure(level string, debug bool, logFile string) (io.Closer, error) {
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	if debug {
		level = "debug"
	}

	var output io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		output, closer = f, f
	}

	Logger = newLogger(output, ParseLevel(level))
	return closer, nil
}

// SetOutput redirects the global logger, keeping its level.
func SetOutput(w io.Writer) {
	Logger = newLogger(w, Logger.GetLevel())
}

// ParseLevel converts a level name to a log level. Unknown names are warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// Debugf adapts the logger to printf-style hooks such as git.SetDebugLogger.
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
