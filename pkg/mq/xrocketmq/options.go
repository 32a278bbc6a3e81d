package xrocketmq

import (
	"log/slog"

	"github.com/omeyang/xrocketmq/internal/remoting"
	"github.com/omeyang/xrocketmq/pkg/observability/xmetrics"
	"github.com/omeyang/xrocketmq/pkg/resilience/xretry"
)

// ProducerOption 生产者选项。
type ProducerOption func(*producerOptions)

type producerOptions struct {
	logger          *slog.Logger
	observer        xmetrics.Observer
	tracer          Tracer
	backoff         xretry.BackoffPolicy
	messageLogLevel slog.Level
	transport       transport
	remotingOpts    []remoting.Option
}

func defaultProducerOptions() producerOptions {
	return producerOptions{
		logger:          slog.Default(),
		observer:        xmetrics.NoopObserver{},
		tracer:          NoopTracer{},
		backoff:         xretry.NewNoBackoff(),
		messageLogLevel: slog.LevelDebug,
	}
}

// WithLogger 设置日志，默认 slog.Default()。
func WithLogger(l *slog.Logger) ProducerOption {
	return func(o *producerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver 设置可观测性后端，默认不采集。
func WithObserver(obs xmetrics.Observer) ProducerOption {
	return func(o *producerOptions) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithTracer 设置消息级链路追踪，默认 NoopTracer。
func WithTracer(t Tracer) ProducerOption {
	return func(o *producerOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithBackoff 设置重试间隔。默认立即重试。
//
// 设计决策: 重试本身换队列，多数情况下不需要等待；
// 服务端限流（TOO_MANY_REQUESTS）频繁时可改为指数退避。
func WithBackoff(b xretry.BackoffPolicy) ProducerOption {
	return func(o *producerOptions) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithMessageLogLevel 设置 RPC 报文日志级别，默认 Debug。
func WithMessageLogLevel(level slog.Level) ProducerOption {
	return func(o *producerOptions) {
		o.messageLogLevel = level
	}
}

// withTransport 替换传输层，测试用。
func withTransport(t transport) ProducerOption {
	return func(o *producerOptions) {
		o.transport = t
	}
}

// withRemotingOptions 追加 remoting.Client 选项，测试中注入 bufconn 拨号器。
func withRemotingOptions(opts ...remoting.Option) ProducerOption {
	return func(o *producerOptions) {
		o.remotingOpts = append(o.remotingOpts, opts...)
	}
}
