package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide JSON logger, wraps it so records pick
// up trace/span ids from the context, and installs it as slog's default.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	log := slog.New(NewTraceHandler(handler))

	slog.SetDefault(log)

	return log
}
