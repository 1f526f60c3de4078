// Package log builds the charmbracelet/log logger shared by the commands.
package log

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Format is the log output format.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	// Default: warn
	Level string

	// Format is text, json or logfmt.
	// Default: text
	Format Format

	// Output receives log lines.
	// Default: os.Stderr
	Output io.Writer
}

// DefaultConfig returns a Config that logs warnings and errors as text to
// stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  "warn",
		Format: FormatText,
		Output: os.Stderr,
	}
}

// FromEnv creates a Config from environment variables:
//   - FSM_LOG_LEVEL: debug, info, warn, error (default: warn)
//   - FSM_LOG_FORMAT: text, json, logfmt (default: text)
func FromEnv() *Config {
	cfg := DefaultConfig()
	if level := os.Getenv("FSM_LOG_LEVEL"); level != "" {
		cfg.Level = strings.ToLower(level)
	}
	if format := os.Getenv("FSM_LOG_FORMAT"); format != "" {
		cfg.Format = Format(strings.ToLower(format))
	}
	return cfg
}

// New creates a logger from cfg. Unknown levels fall back to warn and
// unknown formats to text.
func New(cfg *Config) *charmlog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := charmlog.Options{
		Level:           parseLevel(cfg.Level),
		ReportTimestamp: false,
	}
	switch cfg.Format {
	case FormatJSON:
		opts.Formatter = charmlog.JSONFormatter
	case FormatLogfmt:
		opts.Formatter = charmlog.LogfmtFormatter
	default:
		opts.Formatter = charmlog.TextFormatter
	}
	return charmlog.NewWithOptions(out, opts)
}

func parseLevel(level string) charmlog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return charmlog.DebugLevel
	case "info":
		return charmlog.InfoLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.WarnLevel
	}
}
