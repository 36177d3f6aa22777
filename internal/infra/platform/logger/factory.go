package logger

import (
	"log/slog"
	"os"
	"strings"

	gcplogger "github.com/kawabatas/prompt-deploy/internal/infra/platform/gcp/logger"
)

// New selects a handler by provider. The CLI default is a plain text handler
// on stderr so status lines stay readable in a terminal; "gcp" emits JSON
// shaped for Cloud Logging (useful when the tool runs inside CI on GCP).
func New(provider string, level slog.Level) *slog.Logger {
	switch strings.ToLower(provider) {
	case "gcp":
		return gcplogger.New(level)
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "-4", "debug":
		return slog.LevelDebug
	case "0", "info":
		return slog.LevelInfo
	case "4", "warn":
		return slog.LevelWarn
	case "8", "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
