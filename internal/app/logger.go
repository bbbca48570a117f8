package app

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// newLogger creates the application's slog.Logger. It does not set the
// global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch formatStr {
	case LogJSON:
		handler = slog.NewJSONHandler(outW, handlerOpts)
	case LogText:
		handler = slog.NewTextHandler(outW, handlerOpts)
	default:
		handler = tint.NewHandler(outW, &tint.Options{Level: level})
	}

	return slog.New(handler)
}
