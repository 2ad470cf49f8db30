package contract

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log formats supported by SetupLogger.
const (
	ConsoleLogFormat = "console" // default
	JSONLogFormat    = "json"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var validLogFormats = map[string]struct{}{
	ConsoleLogFormat: {},
	JSONLogFormat:    {},
}

// logger is the process-wide diagnostics logger. Command output never goes through it.
var logger = newLogger(os.Stderr, ConsoleLogFormat, zerolog.InfoLevel)

func newLogger(out io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if format != JSONLogFormat {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// parseLogLevel converts string log level to zerolog.Level.
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogger replaces the diagnostics logger, writing to stderr.
func SetupLogger(level, format string) {
	SetupLoggerTo(os.Stderr, level, format)
}

// SetupLoggerTo replaces the diagnostics logger with one writing to out.
func SetupLoggerTo(out io.Writer, level, format string) {
	logger = newLogger(out, strings.ToLower(format), parseLogLevel(level))
}

// Logger returns the diagnostics logger.
func Logger() *zerolog.Logger {
	return &logger
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.Error().Err(err).Msg(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	logger.Warn().Err(err).Msg(msg)
}
