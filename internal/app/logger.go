package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/lumen/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL/LOG_FORMAT and installs
// it as the slog default. Logs go to stderr because cmd/vocab prints samples,
// counts and translations to stdout.
//
// LOG_FORMAT=json gives JSON lines; any other value gives text, with source
// positions when it is "text".
// An unknown LOG_LEVEL falls back to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := NewLoggerWithWriter(cfg, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// NewLoggerWithWriter is NewLogger with an explicit sink. The slog default
// is left alone, so tests can capture output.
func NewLoggerWithWriter(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
