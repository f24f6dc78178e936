package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a context, e.g. a request id.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// FromContext builds an extractor for a string stored under key.
// Empty values are skipped.
func FromContext(key any, attr string) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ctx == nil {
			return slog.Attr{}, false
		}
		v, ok := ctx.Value(key).(string)
		if !ok || v == "" {
			return slog.Attr{}, false
		}
		return slog.String(attr, v), true
	}
}

// decorator adds attributes from the record's context before delegating.
type decorator struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewLogHandlerDecorator wraps next so every record carries the attributes
// returned by extractors. Nil extractors are dropped.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	if len(clean) == 0 {
		return next
	}
	return &decorator{next: next, extractors: clean}
}

func (h *decorator) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *decorator) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *decorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &decorator{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *decorator) WithGroup(name string) slog.Handler {
	return &decorator{next: h.next.WithGroup(name), extractors: h.extractors}
}
