// Package logger builds the process-wide structured logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. Level defaults to Info;
// set FRAUDGATE_LOG_LEVEL=debug for development verbosity.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("FRAUDGATE_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
