package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxAttrLen is the maximum length of a string attribute value before it is
// truncated. Long enough to keep URLs and file paths intact, short enough
// that a page-text snippet cannot flood the terminal.
const MaxAttrLen = 256

// truncationMark is appended to truncated attribute values.
const truncationMark = "...(truncated)"

// TrimHandler wraps an slog.Handler to keep log lines terminal-sized.
// It intercepts records and rewrites string attribute values: control
// characters are flattened to spaces and values beyond MaxAttrLen are
// truncated, before passing the record to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
type TrimHandler struct {
	// handler is the underlying slog handler that receives trimmed records.
	handler slog.Handler
}

// NewTrimHandler creates a TrimHandler wrapping the given handler.
// If handler is nil, the returned TrimHandler uses slog.Default().Handler().
func NewTrimHandler(handler slog.Handler) *TrimHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &TrimHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TrimHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle trims the record's attributes and passes it to the underlying
// handler.
func (h *TrimHandler) Handle(ctx context.Context, r slog.Record) error {
	trimmed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		trimmed.AddAttrs(h.trimAttr(a))
		return true
	})
	return h.handler.Handle(ctx, trimmed)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are trimmed before being added.
func (h *TrimHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	trimmedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		trimmedAttrs[i] = h.trimAttr(a)
	}
	return &TrimHandler{handler: h.handler.WithAttrs(trimmedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *TrimHandler) WithGroup(name string) slog.Handler {
	return &TrimHandler{handler: h.handler.WithGroup(name)}
}

// trimAttr rewrites string attribute values; groups are handled
// recursively, every other kind passes through untouched.
func (h *TrimHandler) trimAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, TrimValue(a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		trimmed := make([]any, 0, len(group))
		for _, ga := range group {
			trimmed = append(trimmed, h.trimAttr(ga))
		}
		return slog.Group(a.Key, trimmed...)
	default:
		return a
	}
}

// TrimValue flattens control characters to spaces and truncates the value
// to at most MaxAttrLen bytes, cutting on a rune boundary so truncation
// never emits invalid UTF-8.
func TrimValue(s string) string {
	flat := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)

	if len(flat) > MaxAttrLen {
		cut := MaxAttrLen
		for cut > 0 && !utf8.RuneStart(flat[cut]) {
			cut--
		}
		return flat[:cut] + truncationMark
	}
	return flat
}

// NewLogger creates a structured logger writing to w. Debug level when
// verbose, warn otherwise, with attribute trimming applied.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTrimHandler(text))
}
