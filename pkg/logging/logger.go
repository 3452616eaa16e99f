// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs every HTTP request and page.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs per-endpoint progress and run summaries.
	LevelInfo LogLevel = "info"

	// LevelWarn logs rate-limit backoffs and skipped endpoints.
	LevelWarn LogLevel = "warn"

	// LevelError logs fatal run errors only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// ParseLevel converts LogLevel to zerolog.Level. Unknown values map to info.
func ParseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(string(level))) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ValidateLevel reports an error for level names ParseLevel does not know.
func ValidateLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: per-request detail
//   - request path, limit and offset
//   - cache hit/miss for a page
//   - politeness delays between pages
//
// Info: run progress
//   - endpoint completed (rows, destination)
//   - round list discovered
//   - run start and summary
//
// Warn: recoverable conditions
//   - HTTP 429 backoff
//   - endpoint names without a flattener or path
//   - cache errors (request goes to the API instead)
//
// Error: fatal conditions
//   - HTTP errors, network errors, malformed pages
//   - sink write failures
//
// Context Fields:
//   - run_id: identifier of the current run
//   - endpoint: endpoint name (e.g. "results")
//   - path: API resource path
//   - offset: pagination offset
//   - status: HTTP status code
//   - attempt: retry attempt for a rate-limited request
//   - rows: rows in a finished row-set
//   - destination: table name or CSV path
