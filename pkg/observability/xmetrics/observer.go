package xmetrics

import (
	"context"
	"strconv"
	"time"
)

// Kind 观测跨度类型。
type Kind int

const (
	KindInternal Kind = iota
	KindClient
	KindProducer
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "Internal"
	case KindClient:
		return "Client"
	case KindProducer:
		return "Producer"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Status 观测结果状态。
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Attr 观测属性。
type Attr struct {
	Key   string
	Value any
}

// String 字符串属性。
func String(key, value string) Attr { return Attr{Key: key, Value: value} }

// Int 整数属性。
func Int(key string, value int) Attr { return Attr{Key: key, Value: value} }

// Int64 int64 属性。
func Int64(key string, value int64) Attr { return Attr{Key: key, Value: value} }

// Bool 布尔属性。
func Bool(key string, value bool) Attr { return Attr{Key: key, Value: value} }

// Duration 时长属性，记录为纳秒。
func Duration(key string, value time.Duration) Attr { return Attr{Key: key, Value: value} }

// SpanOptions 跨度参数。
type SpanOptions struct {
	Component string
	Operation string
	Kind      Kind
	Attrs     []Attr
}

// Result 跨度结果；Status 为空时由 Err 推导。
type Result struct {
	Status Status
	Err    error
	Attrs  []Attr
}

// Span 一次观测跨度。
type Span interface {
	End(result Result)
}

// Observer 观测接口。
type Observer interface {
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 空实现。
type NoopObserver struct{}

// Start 原样返回 ctx 与空跨度。
func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 空跨度。
type NoopSpan struct{}

// End 空实现。
func (NoopSpan) End(Result) {}

// Start 使用 observer 开始观测。
//
// 保证返回非 nil 的 ctx 与 Span：nil observer、nil ctx
// 以及自定义 Observer 返回的 nil 值都会被兜底。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	retCtx, span := observer.Start(ctx, opts)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return retCtx, span
}

func resolveStatus(r Result) Status {
	if r.Status != "" {
		return r.Status
	}
	if r.Err != nil {
		return StatusError
	}
	return StatusOK
}
