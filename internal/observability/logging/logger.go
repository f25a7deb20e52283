// Package logging builds the process-wide structured logger. Both binaries
// log JSON to stdout; the level comes from LOG_LEVEL.
package logging

import (
	"log/slog"
	"os"
)

// NewLogger creates a JSON logger writing to stdout. LOG_LEVEL selects the
// level (debug, info, warn, error); unknown or empty values mean info.
// Source locations are attached when the level is warn-or-lower so error
// lines can be traced without a debugger.
func NewLogger() *slog.Logger {
	logLevel := parseLevel(os.Getenv("LOG_LEVEL"))

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel <= slog.LevelWarn,
	})

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
