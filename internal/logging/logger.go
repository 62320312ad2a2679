// Package logging configures the structured JSON logger used across the host.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// EnvVarLogLevel is the environment variable controlling the log level.
const EnvVarLogLevel = "MENUCORE_LOG_LEVEL"

// NewStructuredLogger creates a JSON logger tagged with the module name and
// version. AddSource is enabled for debug level only.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	lev := ParseLogLevel(level)
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	})).With("module", module, "version", version)
}

// SetDefaultLogger installs the structured logger as the process default,
// deriving the level from MENUCORE_LOG_LEVEL.
func SetDefaultLogger(module, version string) {
	slog.SetDefault(NewStructuredLogger(module, version, os.Getenv(EnvVarLogLevel)))
}

// ParseLogLevel converts a level string into a slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
