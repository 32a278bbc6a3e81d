package xlog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// EnrichHandler 在每条记录上追加 ctx 中有效 span 的 trace_id/span_id。
type EnrichHandler struct {
	next slog.Handler
}

// NewEnrichHandler 包装 next。
func NewEnrichHandler(next slog.Handler) *EnrichHandler {
	return &EnrichHandler{next: next}
}

// Enabled 委托给 next。
func (h *EnrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle 追加追踪字段后交给 next。
func (h *EnrichHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			r = r.Clone()
			r.AddAttrs(
				slog.String(KeyTraceID, sc.TraceID().String()),
				slog.String(KeySpanID, sc.SpanID().String()),
			)
		}
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs 返回带固定属性的新 handler。
func (h *EnrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnrichHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup 返回带分组的新 handler。
func (h *EnrichHandler) WithGroup(name string) slog.Handler {
	return &EnrichHandler{next: h.next.WithGroup(name)}
}
