package xmetrics

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xrocketmq"

	metricOperationTotal    = "rocketmq.client.operation.total"
	metricOperationDuration = "rocketmq.client.operation.duration"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
	metricAttrKeys      []string
}

// Option OTel Observer 配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider，默认全局。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认全局。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// WithMetricAttrKeys 把 SpanOptions.Attrs 中指定 key 的属性追加为指标维度。
func WithMetricAttrKeys(keys ...string) Option {
	return func(cfg *otelConfig) {
		cfg.metricAttrKeys = append(cfg.metricAttrKeys, keys...)
	}
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer。
func NewOTelObserver(opts ...Option) (Observer, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)
	total, err := meter.Int64Counter(metricOperationTotal,
		metric.WithDescription("client operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}
	duration, err := meter.Float64Histogram(metricOperationDuration,
		metric.WithDescription("client operation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create histogram failed: %w", err)
	}

	return &otelObserver{
		tracer:         cfg.tracerProvider.Tracer(cfg.instrumentationName),
		total:          total,
		duration:       duration,
		metricAttrKeys: cfg.metricAttrKeys,
	}, nil
}

type otelObserver struct {
	tracer         trace.Tracer
	total          metric.Int64Counter
	duration       metric.Float64Histogram
	metricAttrKeys []string
}

func (o *otelObserver) Start(ctx context.Context, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	component := cmpOr(opts.Component, "unknown")
	operation := cmpOr(opts.Operation, "unknown")

	spanAttrs := make([]attribute.KeyValue, 0, 2+len(opts.Attrs))
	spanAttrs = append(spanAttrs,
		attribute.String("component", component),
		attribute.String("operation", operation),
	)
	spanAttrs = append(spanAttrs, toOTel(opts.Attrs)...)

	ctx, span := o.tracer.Start(ctx, component+"."+operation,
		trace.WithSpanKind(spanKind(opts.Kind)),
		trace.WithAttributes(spanAttrs...),
	)

	labels := []attribute.KeyValue{
		attribute.String("component", component),
		attribute.String("operation", operation),
	}
	for _, a := range opts.Attrs {
		if slices.Contains(o.metricAttrKeys, a.Key) && a.Value != nil {
			labels = append(labels, toKeyValue(a))
		}
	}

	return ctx, &otelSpan{
		span:     span,
		observer: o,
		ctx:      ctx,
		labels:   labels,
		start:    time.Now(),
	}
}

type otelSpan struct {
	span     trace.Span
	observer *otelObserver
	ctx      context.Context
	labels   []attribute.KeyValue
	start    time.Time
	once     sync.Once
}

// End 幂等：defer 与显式调用同时存在时只记录一次。
func (s *otelSpan) End(result Result) {
	s.once.Do(func() {
		status := resolveStatus(result)
		if result.Err != nil {
			s.span.RecordError(result.Err)
		}
		if status == StatusError {
			msg := "operation failed"
			if result.Err != nil {
				msg = result.Err.Error()
			}
			s.span.SetStatus(codes.Error, msg)
		} else {
			s.span.SetStatus(codes.Ok, "")
		}
		if len(result.Attrs) > 0 {
			s.span.SetAttributes(toOTel(result.Attrs)...)
		}
		s.span.End()

		// 请求 ctx 可能已取消，指标仍需记录。
		ctx := context.WithoutCancel(s.ctx)
		attrs := append(slices.Clone(s.labels), attribute.String("status", string(status)))
		s.observer.total.Add(ctx, 1, metric.WithAttributes(attrs...))
		s.observer.duration.Record(ctx, time.Since(s.start).Seconds(), metric.WithAttributes(attrs...))
	})
}

func spanKind(k Kind) trace.SpanKind {
	switch k {
	case KindClient:
		return trace.SpanKindClient
	case KindProducer:
		return trace.SpanKindProducer
	default:
		return trace.SpanKindInternal
	}
}

func toOTel(attrs []Attr) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		if a.Key == "" || a.Value == nil {
			continue
		}
		out = append(out, toKeyValue(a))
	}
	return out
}

func toKeyValue(a Attr) attribute.KeyValue {
	switch v := a.Value.(type) {
	case string:
		return attribute.String(a.Key, v)
	case bool:
		return attribute.Bool(a.Key, v)
	case int:
		return attribute.Int(a.Key, v)
	case int32:
		return attribute.Int(a.Key, int(v))
	case int64:
		return attribute.Int64(a.Key, v)
	case uint64:
		if v <= math.MaxInt64 {
			return attribute.Int64(a.Key, int64(v))
		}
		return attribute.String(a.Key, fmt.Sprint(v))
	case float64:
		return attribute.Float64(a.Key, v)
	case time.Duration:
		return attribute.Int64(a.Key, v.Nanoseconds())
	default:
		return attribute.String(a.Key, fmt.Sprint(v))
	}
}

func cmpOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
