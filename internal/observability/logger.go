package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide structured logger. JSON to stdout in
// production, human-readable text otherwise.
func NewLogger(environment string) *slog.Logger {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
