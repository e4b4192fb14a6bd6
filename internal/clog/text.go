package clog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Columns printed ahead of the message when present.
//
//nolint:gochecknoglobals // fixed column order
var leadingColumns = []string{"method", "path", "status"}

// TextHandlerConfig configures a TextHandler.
type TextHandlerConfig struct {
	Color bool
	Level slog.Leveler
}

// TextHandlerOption configures a TextHandler.
type TextHandlerOption func(*TextHandlerConfig)

// WithColor toggles ANSI colors.
func WithColor(c bool) TextHandlerOption {
	return func(cfg *TextHandlerConfig) {
		cfg.Color = c
	}
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Leveler) TextHandlerOption {
	return func(cfg *TextHandlerConfig) {
		cfg.Level = level
	}
}

// TextHandler writes one colored line per record followed by indented key=value pairs.
type TextHandler struct {
	cfg    TextHandlerConfig
	mu     *sync.Mutex
	w      io.Writer
	groups []string
	attrs  []slog.Attr
}

// NewTextHandler creates a TextHandler writing to w.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	cfg := TextHandlerConfig{Color: true, Level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &TextHandler{cfg: cfg, mu: &sync.Mutex{}, w: w}
}

func (h *TextHandler) clone() *TextHandler {
	nh := *h
	nh.groups = slices.Clone(h.groups)
	nh.attrs = slices.Clone(h.attrs)
	return &nh
}

func (h *TextHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.cfg.Level.Level()
}

func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, h.qualify(a))
	}
	return nh
}

func (h *TextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := h.clone()
	nh.groups = append(nh.groups, name)
	return nh
}

func (h *TextHandler) qualify(a slog.Attr) slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		a.Key = h.groups[i] + "." + a.Key
	}
	return a
}

func (h *TextHandler) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if h.cfg.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func levelColor(l slog.Level) color.Attribute {
	switch {
	case l >= slog.LevelError:
		return color.FgRed
	case l >= slog.LevelWarn:
		return color.FgYellow
	case l >= slog.LevelInfo:
		return color.FgBlue
	default:
		return color.FgCyan
	}
}

func (h *TextHandler) Handle(_ context.Context, record slog.Record) error {
	kv := make(map[string]slog.Value, len(h.attrs)+record.NumAttrs())
	for _, a := range h.attrs {
		kv[a.Key] = a.Value
	}
	record.Attrs(func(a slog.Attr) bool {
		a = h.qualify(a)
		kv[a.Key] = a.Value.Resolve()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := fmt.Fprintf(h.w, "%s ", record.Time.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("can't write time: %w", err)
	}
	if _, err := h.paint(levelColor(record.Level)).Fprintf(h.w, "%s ", record.Level); err != nil {
		return fmt.Errorf("can't write level: %w", err)
	}
	for _, key := range leadingColumns {
		if v, ok := kv[key]; ok {
			if _, err := fmt.Fprintf(h.w, "%s ", v); err != nil {
				return fmt.Errorf("can't write %s: %w", key, err)
			}
			delete(kv, key)
		}
	}
	if _, err := h.paint(color.FgGreen).Fprint(h.w, record.Message); err != nil {
		return fmt.Errorf("can't write message: %w", err)
	}
	if e, ok := kv[ErrorAttributeKey]; ok {
		delete(kv, ErrorAttributeKey)
		if _, err := h.paint(color.FgRed).Fprintf(h.w, " %s", e); err != nil {
			return fmt.Errorf("can't write error: %w", err)
		}
	}
	if _, err := fmt.Fprintln(h.w); err != nil {
		return err
	}

	for _, k := range slices.Sorted(maps.Keys(kv)) {
		if _, err := fmt.Fprintf(h.w, "    %s=%s\n", k, kv[k]); err != nil {
			return fmt.Errorf("can't write %s: %w", k, err)
		}
	}
	return nil
}
