package xrocketmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xrocketmq/internal/mqcore"
	"github.com/omeyang/xrocketmq/internal/remoting"
	"github.com/omeyang/xrocketmq/pkg/business/xauth"
	"github.com/omeyang/xrocketmq/pkg/lifecycle/xcron"
	"github.com/omeyang/xrocketmq/pkg/observability/xlog"
	"github.com/omeyang/xrocketmq/pkg/observability/xmetrics"
	"github.com/omeyang/xrocketmq/pkg/resilience/xretry"
	"github.com/omeyang/xrocketmq/pkg/util/xid"
)

const (
	componentName = "xrocketmq"

	// refreshConcurrency 单轮刷新的并发上限。
	refreshConcurrency = 8
)

// clientCore 生产者共享的客户端核心：路由缓存、传输层、后台任务与存活期。
type clientCore struct {
	id        string
	cfg       Config
	transport transport
	cache     *routeCache
	isolator  *isolator
	lifetime  *mqcore.Lifetime
	scheduler *xcron.Scheduler
	logger    *slog.Logger
	observer  xmetrics.Observer
	ids       *xid.Generator
	now       func() time.Time

	// apCursor 接入点轮转游标。
	apCursor atomic.Uint64
	// brokers 发送成功过的 broker 端点，心跳与下线通知的目标。
	brokers sync.Map

	routeFetches atomic.Int64
}

func newClientCore(cfg Config, o producerOptions) (*clientCore, error) {
	ids, err := xid.NewGenerator()
	if err != nil {
		return nil, err
	}
	id, err := newClientID(ids)
	if err != nil {
		return nil, err
	}
	logger := o.logger.With(xlog.Component(componentName), xlog.ClientID(id))

	tr := o.transport
	if tr == nil {
		tr, err = newDefaultTransport(cfg, id, logger, o)
		if err != nil {
			return nil, err
		}
	}
	return &clientCore{
		id:        id,
		cfg:       cfg,
		transport: tr,
		cache:     newRouteCache(),
		isolator:  newIsolator(cfg.IsolationThreshold, cfg.IsolationTimeout, logger),
		lifetime:  mqcore.NewLifetime(),
		scheduler: xcron.New(xcron.WithLogger(logger)),
		logger:    logger,
		observer:  o.observer,
		ids:       ids,
		now:       time.Now,
	}, nil
}

func newDefaultTransport(cfg Config, clientID string, logger *slog.Logger, o producerOptions) (transport, error) {
	signer, err := xauth.NewSigner(cfg.CredentialsProvider, clientID, xauth.WithNamespace(cfg.Namespace))
	if err != nil {
		return nil, err
	}
	ropts := []remoting.Option{
		remoting.WithSigner(signer),
		remoting.WithLogger(logger),
		remoting.WithMessageLogLevel(o.messageLogLevel),
	}
	if cfg.SSLEnabled {
		ropts = append(ropts, remoting.WithTLS(&tls.Config{MinVersion: tls.VersionTLS12}))
	}
	ropts = append(ropts, o.remotingOpts...)
	client, err := remoting.NewClient(ropts...)
	if err != nil {
		return nil, err
	}
	return newRemotingTransport(client, cfg.Namespace, cfg.RequestTimeout), nil
}

// start 预取路由并启动后台任务。
func (c *clientCore) start(ctx context.Context) error {
	for _, topic := range c.cfg.Topics {
		if _, err := c.fetchAndStore(ctx, topic); err != nil {
			return fmt.Errorf("xrocketmq: prefetch route of %q: %w", topic, err)
		}
	}
	jobs := []struct {
		name     string
		interval time.Duration
		job      xcron.Job
	}{
		{"route-refresh", c.cfg.RouteRefreshInterval, c.refreshRoutes},
		{"heartbeat", c.cfg.HeartbeatInterval, c.heartbeat},
		{"idle-sweep", c.cfg.IdleConnTimeout / 2, c.sweepIdle},
	}
	for _, j := range jobs {
		if _, err := c.scheduler.Every(j.name, j.interval, j.job, xcron.WithTimeout(j.interval)); err != nil {
			return err
		}
	}
	c.scheduler.Start()
	return nil
}

// resolve 返回 topic 的路由，缓存未命中时同步拉取。
//
// 并发未命中可能重复拉取，后写入者覆盖先写入者。
func (c *clientCore) resolve(ctx context.Context, topic string) (*TopicRouteData, error) {
	if r, ok := c.cache.get(topic); ok && len(r.Queues) > 0 {
		return r, nil
	}
	return c.fetchAndStore(ctx, topic)
}

func (c *clientCore) fetchAndStore(ctx context.Context, topic string) (*TopicRouteData, error) {
	c.cache.beginFetch(topic)
	defer c.cache.endFetch(topic)

	route, err := c.fetchRoute(ctx, topic)
	if err == nil && (route == nil || len(route.Queues) == 0) {
		err = fmt.Errorf("%w: topic %q has no queues", ErrRouteNotFound, topic)
	}
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			c.cache.markUnroutable(topic)
		}
		return nil, err
	}
	if route.Topic == "" {
		route.Topic = topic
	}
	if route.FetchedAt.IsZero() {
		route.FetchedAt = c.now()
	}
	c.cache.put(route)
	return route, nil
}

// fetchRoute 按接入点轮转查询路由，每个接入点至多一次，只对瞬时错误换下一个。
func (c *clientCore) fetchRoute(ctx context.Context, topic string) (route *TopicRouteData, err error) {
	ctx, span := xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "query_route",
		Kind:      xmetrics.KindClient,
		Attrs:     []xmetrics.Attr{xmetrics.String("topic", topic)},
	})
	defer func() { span.End(xmetrics.Result{Err: err}) }()

	endpoints := c.cfg.Endpoints
	retryer := xretry.NewRetryer(
		xretry.WithRetryPolicy(transientRetryPolicy{max: len(endpoints)}),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	)
	return xretry.DoWithResult(ctx, retryer, func(ctx context.Context) (*TopicRouteData, error) {
		c.routeFetches.Add(1)
		ep := endpoints[(c.apCursor.Add(1)-1)%uint64(len(endpoints))]
		r, err := c.transport.QueryRoute(ctx, []string{ep}, topic)
		if err != nil {
			c.logger.Debug("query route failed", xlog.Topic(topic), xlog.Endpoint(ep), xlog.Err(err))
		}
		return r, err
	})
}

// refreshRoutes 刷新全部已登记 topic。
//
// 单个 topic 失败只记录日志并保留旧路由，不影响其它 topic。
func (c *clientCore) refreshRoutes(ctx context.Context) error {
	topics := c.cache.topics()
	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(refreshConcurrency)
	for _, topic := range topics {
		g.Go(func() error {
			if _, err := c.fetchAndStore(ctx, topic); err != nil {
				failed.Add(1)
				c.logger.Warn("refresh route failed, keep previous", xlog.Topic(topic), xlog.Err(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	c.pruneBrokers()
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("xrocketmq: refresh %d of %d topics failed", n, len(topics))
	}
	return nil
}

// brokerEndpoints 发送成功过的 broker 端点，排序后返回。
func (c *clientCore) brokerEndpoints() []string {
	var out []string
	c.brokers.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	sort.Strings(out)
	return out
}

func (c *clientCore) markServed(endpoints string) {
	c.brokers.Store(endpoints, struct{}{})
}

// pruneBrokers 移除已不在任何路由中的 broker，之后不再向其发送心跳。
func (c *clientCore) pruneBrokers() {
	live := c.cache.endpoints()
	c.brokers.Range(func(k, _ any) bool {
		if _, ok := live[k.(string)]; !ok {
			c.brokers.Delete(k)
			c.logger.Debug("broker left all routes", xlog.Endpoint(k.(string)))
		}
		return true
	})
}

// heartbeat 向发送过消息的 broker 发送心跳。
func (c *clientCore) heartbeat(ctx context.Context) error {
	endpoints := c.brokerEndpoints()
	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(refreshConcurrency)
	for _, ep := range endpoints {
		g.Go(func() error {
			if err := c.transport.Heartbeat(ctx, Broker{Endpoints: ep}.Addresses()); err != nil {
				failed.Add(1)
				c.logger.Warn("heartbeat failed", xlog.Endpoint(ep), xlog.Err(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("xrocketmq: heartbeat to %d of %d endpoints failed", n, len(endpoints))
	}
	return nil
}

func (c *clientCore) sweepIdle(context.Context) error {
	s, ok := c.transport.(idleSweeper)
	if !ok {
		return nil
	}
	if n := s.SweepIdle(c.cfg.IdleConnTimeout); n > 0 {
		c.logger.Debug("closed idle connections", slog.Int("count", n))
	}
	return nil
}

func (c *clientCore) routeState(topic string) RouteState {
	return c.cache.state(topic, c.now(), c.cfg.RouteTTL)
}

// shutdown 只有第一次调用生效。
//
// 顺序：结束存活期（取消进行中的发送）→ 停止后台任务 →
// 尽力通知 broker 下线 → 关闭连接 → 清空缓存。
func (c *clientCore) shutdown(ctx context.Context) error {
	if !c.lifetime.End() {
		return nil
	}
	var errs []error
	if err := c.scheduler.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, ep := range c.brokerEndpoints() {
		if ctx.Err() != nil {
			break
		}
		if err := c.transport.NotifyClientTermination(ctx, Broker{Endpoints: ep}.Addresses()); err != nil {
			c.logger.Debug("notify client termination failed", xlog.Endpoint(ep), xlog.Err(err))
		}
	}
	if err := c.transport.Close(); err != nil {
		errs = append(errs, err)
	}
	c.cache.clear()
	c.logger.Info("client shut down")
	return errors.Join(errs...)
}

// transientRetryPolicy 只重试瞬时错误，且不超过 max 次尝试。
type transientRetryPolicy struct {
	max int
}

func (p transientRetryPolicy) MaxAttempts() int { return p.max }

func (p transientRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	if ctx.Err() != nil || attempt >= p.max {
		return false
	}
	return IsTransient(err)
}
