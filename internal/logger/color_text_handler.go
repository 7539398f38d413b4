package logger

import (
	"context"
	"io"
	"log/slog"
)

const colorReset = "\033[0m"

var levelColors = map[slog.Level]string{
	slog.LevelDebug: "\033[36m", // cyan
	slog.LevelInfo:  "\033[32m", // green
	slog.LevelWarn:  "\033[33m", // yellow
	slog.LevelError: "\033[31m", // red
}

// ColorTextHandler wraps slog.TextHandler and prefixes each message with a
// level tag, ANSI-colored when color is on. Used for the stderr handler only;
// file sinks get a plain text handler.
type ColorTextHandler struct {
	*slog.TextHandler
	color bool
}

// NewColorTextHandler creates a new ColorTextHandler
func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions, color bool) *ColorTextHandler {
	return &ColorTextHandler{
		TextHandler: slog.NewTextHandler(w, opts),
		color:       color,
	}
}

// Handle implements slog.Handler
func (h *ColorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	tag := r.Level.String()
	if h.color {
		c, ok := levelColors[r.Level]
		if !ok {
			c = colorReset
		}
		tag = c + tag + colorReset
	}
	r.Message = tag + "  " + r.Message
	return h.TextHandler.Handle(ctx, r)
}
