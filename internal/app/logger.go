package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mchales/huistack-backend/internal/config"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds the process logger from LogConfig and installs it as
// the slog default. Format "json" is for production; anything else gets
// the text handler with source locations for local work. Unrecognized
// levels fall back to info. Output goes to stderr.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(cfg.Level))]
	if !ok {
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: true})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
