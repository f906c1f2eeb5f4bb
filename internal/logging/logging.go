// Package logging configures the process-wide structured logger every
// component hangs its scoped child loggers off of.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds a text-handler slog logger at the given level, installs it
// as the default and returns it. The level string comes from
// LISTA_LOG_LEVEL; empty or unrecognized values mean info.
func Setup(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
