package logging

import (
	"log/slog"
	"os"
)

// New returns a logger with a text handler writing to STDOUT at the given level.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
