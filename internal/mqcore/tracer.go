package mqcore

import "context"

// Tracer 定义消息级链路追踪接口。
//
// 生产者发送前调用 Inject，把当前追踪上下文写入消息的 user properties；
// 消费侧（不在本模块范围内）通过 Extract 恢复。
// 实现者应使用 W3C Trace Context 的属性名（traceparent / tracestate）。
type Tracer interface {
	// Inject 将 ctx 中的追踪信息写入 props。props 为 nil 时不做任何操作。
	Inject(ctx context.Context, props map[string]string)

	// Extract 从 props 恢复追踪上下文。
	Extract(props map[string]string) context.Context
}

// NoopTracer 是 Tracer 的空实现。
type NoopTracer struct{}

// Inject 空实现。
func (NoopTracer) Inject(_ context.Context, _ map[string]string) {}

// Extract 返回 context.Background()。
func (NoopTracer) Extract(_ map[string]string) context.Context {
	return context.Background()
}

var _ Tracer = NoopTracer{}
