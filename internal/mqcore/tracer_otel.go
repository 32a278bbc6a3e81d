package mqcore

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
)

type otelTracerConfig struct {
	propagator propagation.TextMapPropagator
}

// OTelTracerOption 定义 OTelTracer 的配置选项。
type OTelTracerOption func(*otelTracerConfig)

// WithOTelPropagator 设置自定义的 Propagator，nil 被忽略。
func WithOTelPropagator(propagator propagation.TextMapPropagator) OTelTracerOption {
	return func(cfg *otelTracerConfig) {
		if propagator != nil {
			cfg.propagator = propagator
		}
	}
}

// OTelTracer 基于 OpenTelemetry propagation 的 Tracer 实现。
// 默认组合 TraceContext 与 Baggage 两种格式。
type OTelTracer struct {
	propagator propagation.TextMapPropagator
}

// NewOTelTracer 创建 OTelTracer。
func NewOTelTracer(opts ...OTelTracerOption) OTelTracer {
	cfg := &otelTracerConfig{
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return OTelTracer{propagator: cfg.propagator}
}

// Inject 将追踪信息写入消息属性。
// ctx 中没有有效 SpanContext 时不写入 traceparent。
func (t OTelTracer) Inject(ctx context.Context, props map[string]string) {
	if props == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	t.propagator.Inject(ctx, propagation.MapCarrier(props))
}

// Extract 从消息属性恢复追踪上下文。
func (t OTelTracer) Extract(props map[string]string) context.Context {
	if props == nil {
		return context.Background()
	}
	return t.propagator.Extract(context.Background(), propagation.MapCarrier(props))
}

var _ Tracer = OTelTracer{}
