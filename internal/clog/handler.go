package clog

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// AttributesHandler adds the context's attribute bag to each record.
type AttributesHandler struct {
	handler slog.Handler
}

// NewAttributesHandler wraps handler.
func NewAttributesHandler(handler slog.Handler) *AttributesHandler {
	return &AttributesHandler{handler: handler}
}

func (h *AttributesHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *AttributesHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := GetAttributes(ctx); len(attrs) > 0 {
		record.AddAttrs(toAttrs(attrs)...)
	}
	return h.handler.Handle(ctx, record)
}

func (h *AttributesHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AttributesHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *AttributesHandler) WithGroup(name string) slog.Handler {
	return &AttributesHandler{handler: h.handler.WithGroup(name)}
}

func toAttrs(m map[string]any) []slog.Attr {
	keys := slices.Sorted(maps.Keys(m))
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, m[k]))
	}
	return attrs
}

// NewHandler builds the handler for format, wrapped in an AttributesHandler.
// Unknown formats fall back to text.
func NewHandler(level slog.Level, format string, w io.Writer) slog.Handler {
	var h slog.Handler
	if strings.EqualFold(format, FormatJSON) {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		h = NewTextHandler(w, WithLevel(level), WithColor(isTerminal(w)))
	}
	return NewAttributesHandler(h)
}

// Setup installs the default logger.
func Setup(level slog.Level, format string, w io.Writer) *slog.Logger {
	logger := slog.New(NewHandler(level, format, w))
	slog.SetDefault(logger)
	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && !color.NoColor && isatty.IsTerminal(f.Fd())
}
