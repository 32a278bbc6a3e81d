package xrocketmq

import (
	"context"
	"fmt"
	"maps"
	"sync/atomic"

	"github.com/omeyang/xrocketmq/internal/mqcore"
	"github.com/omeyang/xrocketmq/internal/remoting"
	"github.com/omeyang/xrocketmq/pkg/observability/xlog"
	"github.com/omeyang/xrocketmq/pkg/observability/xmetrics"
	"github.com/omeyang/xrocketmq/pkg/resilience/xretry"
)

// Producer 消息生产者，并发安全。
type Producer struct {
	core     *clientCore
	selector queueSelector
	tracer   Tracer
	backoff  xretry.BackoffPolicy

	sent     atomic.Int64
	failed   atomic.Int64
	attempts atomic.Int64
	retries  atomic.Int64
}

// NewProducer 创建并启动生产者。
//
// cfg.Topics 中的路由在返回前拉取完成，任一失败则返回错误。
// ctx 只约束启动阶段的预取。
func NewProducer(ctx context.Context, cfg Config, opts ...ProducerOption) (*Producer, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultProducerOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	core, err := newClientCore(cfg, o)
	if err != nil {
		return nil, err
	}
	p := &Producer{
		core:    core,
		tracer:  o.tracer,
		backoff: o.backoff,
	}
	if err := core.start(ctx); err != nil {
		_ = core.shutdown(context.Background())
		return nil, err
	}
	core.logger.Info("producer started", xlog.Endpoint(remoting.Key(cfg.Endpoints)))
	return p, nil
}

// ClientID 客户端标识。
func (p *Producer) ClientID() string { return p.core.id }

// Send 同步发送一条消息。
//
// 路由解析失败不消耗尝试次数；每次尝试选择本次调用尚未尝试过的队列；
// 只有瞬时错误会重试，用尽时返回 ErrMaxAttemptsExceeded 包裹最后一次错误。
func (p *Producer) Send(ctx context.Context, msg *Message) (receipt *SendReceipt, err error) {
	c := p.core
	if !c.lifetime.Alive() {
		return nil, ErrClientClosed
	}
	if err := msg.validate(c.cfg.MaxBodySize); err != nil {
		return nil, err
	}
	ctx, stop := c.lifetime.Bind(ctx)
	defer stop()

	var attempts int
	ctx, span := xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "send",
		Kind:      xmetrics.KindProducer,
		Attrs:     []xmetrics.Attr{xmetrics.String("topic", msg.Topic)},
	})
	defer func() {
		if err != nil {
			p.failed.Add(1)
		} else {
			p.sent.Add(1)
		}
		span.End(xmetrics.Result{Err: err, Attrs: []xmetrics.Attr{xmetrics.Int("attempts", attempts)}})
	}()

	route, err := c.resolve(ctx, msg.Topic)
	if err != nil {
		if mqcore.IsClosed(ctx) {
			return nil, ErrClientClosed
		}
		return nil, err
	}
	queues := route.Writable()
	if len(queues) == 0 {
		return nil, fmt.Errorf("%w: topic %q has no writable queue", ErrRouteNotFound, msg.Topic)
	}

	msgID, err := newMessageID(c.ids)
	if err != nil {
		return nil, err
	}
	props := maps.Clone(msg.Properties)
	if props == nil {
		props = make(map[string]string)
	}
	p.tracer.Inject(ctx, props)
	wire := toWireMessage(msg, c.cfg.Namespace, msgID, props, c.now())

	start := p.selector.start(msg.Topic, msg.MessageGroup, len(queues))
	tried := make(map[MessageQueue]struct{}, len(queues))
	var last *MessageQueue
	var lastErr error
	retryer := xretry.NewRetryer(
		xretry.WithRetryPolicy(transientRetryPolicy{max: c.cfg.MaxAttempts}),
		xretry.WithBackoffPolicy(p.backoff),
	)
	receipt, err = xretry.DoWithResult(ctx, retryer, func(ctx context.Context) (*SendReceipt, error) {
		attempt := attempts
		attempts++
		p.attempts.Add(1)
		if attempt > 0 {
			p.retries.Add(1)
		}
		mq := selectQueue(queues, start, attempt, tried, last, c.isolator.isolated)
		tried[mq] = struct{}{}
		last = &mq

		w := *wire
		w.SystemProperties.QueueID = mq.ID
		r, err := c.transport.SendMessage(ctx, mq, &w)
		c.isolator.record(mq.Broker.Endpoints, err)
		if err != nil {
			lastErr = err
			c.logger.Debug("send attempt failed",
				xlog.Topic(msg.Topic), xlog.Endpoint(mq.Broker.Endpoints), xlog.Attempt(attempt+1), xlog.Err(err))
			return nil, err
		}
		c.markServed(mq.Broker.Endpoints)
		return r, nil
	})
	if err == nil {
		return receipt, nil
	}
	switch {
	case mqcore.IsClosed(ctx):
		return nil, ErrClientClosed
	case lastErr != nil && IsTransient(lastErr) && attempts >= c.cfg.MaxAttempts:
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, attempts, lastErr)
	case lastErr != nil && ctx.Err() == nil:
		return nil, lastErr
	}
	return nil, err
}

// Route 返回 topic 路由的副本，未缓存时同步拉取。
func (p *Producer) Route(ctx context.Context, topic string) (*TopicRouteData, error) {
	if !p.core.lifetime.Alive() {
		return nil, ErrClientClosed
	}
	ctx, stop := p.core.lifetime.Bind(ctx)
	defer stop()
	r, err := p.core.resolve(ctx, topic)
	if err != nil {
		if mqcore.IsClosed(ctx) {
			return nil, ErrClientClosed
		}
		return nil, err
	}
	return r.Clone(), nil
}

// RouteState 返回 topic 当前的路由状态。
func (p *Producer) RouteState(topic string) RouteState {
	return p.core.routeState(topic)
}

// Stats 返回统计快照。
func (p *Producer) Stats() ProducerStats {
	return ProducerStats{
		Sent:         p.sent.Load(),
		Failed:       p.failed.Load(),
		Attempts:     p.attempts.Load(),
		Retries:      p.retries.Load(),
		RouteFetches: p.core.routeFetches.Load(),
	}
}

// Shutdown 关闭生产者。可重复调用，第二次起直接返回 nil。
//
// 进行中的 Send 返回 ErrClientClosed；ctx 约束下线通知等收尾 RPC。
func (p *Producer) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return p.core.shutdown(ctx)
}
