package xmetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestObserver(t *testing.T, opts ...Option) (Observer, *tracetest.InMemoryExporter, *sdkmetric.ManualReader) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	obs, err := NewOTelObserver(append([]Option{WithTracerProvider(tp), WithMeterProvider(mp)}, opts...)...)
	require.NoError(t, err)
	return obs, exporter, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader) metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == metricOperationTotal {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				return sum
			}
		}
	}
	t.Fatalf("metric %s not found", metricOperationTotal)
	return metricdata.Sum[int64]{}
}

func TestOTelObserver_SpanAndMetrics(t *testing.T) {
	obs, exporter, reader := newTestObserver(t, WithMetricAttrKeys("topic"))

	ctx, span := obs.Start(context.Background(), SpanOptions{
		Component: "xrocketmq",
		Operation: "send",
		Kind:      KindProducer,
		Attrs:     []Attr{String("topic", "T1"), Int("attempts", 2), Duration("timeout", time.Second)},
	})
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	span.End(Result{Attrs: []Attr{String("message_id", "01ABC")}})
	span.End(Result{Err: errors.New("ignored")})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "xrocketmq.send", spans[0].Name)
	assert.Equal(t, trace.SpanKindProducer, spans[0].SpanKind)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	sum := collectSum(t, reader)
	require.Len(t, sum.DataPoints, 1)
	dp := sum.DataPoints[0]
	assert.Equal(t, int64(1), dp.Value)
	topic, ok := dp.Attributes.Value(attribute.Key("topic"))
	require.True(t, ok)
	assert.Equal(t, "T1", topic.AsString())
	status, _ := dp.Attributes.Value(attribute.Key("status"))
	assert.Equal(t, "ok", status.AsString())
	_, hasAttempts := dp.Attributes.Value(attribute.Key("attempts"))
	assert.False(t, hasAttempts)
}

func TestOTelObserver_Error(t *testing.T) {
	obs, exporter, reader := newTestObserver(t)

	_, span := obs.Start(context.Background(), SpanOptions{Operation: "query_route", Kind: KindClient})
	span.End(Result{Err: errors.New("route not found")})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "unknown.query_route", spans[0].Name)

	sum := collectSum(t, reader)
	require.Len(t, sum.DataPoints, 1)
	status, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("status"))
	assert.Equal(t, "error", status.AsString())
}

func TestToKeyValue(t *testing.T) {
	assert.Equal(t, attribute.Int64("d", int64(time.Millisecond)), toKeyValue(Duration("d", time.Millisecond)))
	assert.Equal(t, attribute.Bool("b", true), toKeyValue(Bool("b", true)))
	assert.Equal(t, attribute.Int64("i", 7), toKeyValue(Int64("i", 7)))
	assert.Equal(t, attribute.Int("q", 3), toKeyValue(Attr{Key: "q", Value: int32(3)}))
	assert.Equal(t, attribute.String("u", "18446744073709551615"), toKeyValue(Attr{Key: "u", Value: uint64(1<<64 - 1)}))
	assert.Equal(t, attribute.String("s", "[1 2]"), toKeyValue(Attr{Key: "s", Value: []int{1, 2}}))
	assert.Empty(t, toOTel([]Attr{{Key: "", Value: 1}, {Key: "nil"}}))
}
