package host

import (
	"io"
	"log/slog"
)

// NewLogger builds a logger for the given level ("debug", "info", "warn",
// "error") and format ("json" or text).
func NewLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}

// Logger returns the container's logger, or slog.Default when the host
// has none registered.
func Logger(c *Container) *slog.Logger {
	if c == nil || !c.Has(KeyLogger) {
		return slog.Default()
	}
	l, err := Resolve[*slog.Logger](c, KeyLogger)
	if err != nil {
		return slog.Default()
	}
	return l
}
