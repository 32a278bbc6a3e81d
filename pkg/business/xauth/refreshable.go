package xauth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xrocketmq/pkg/observability/xlog"
	"github.com/omeyang/xrocketmq/pkg/resilience/xretry"
)

// Loader 加载一份新凭证。实现可以做网络 I/O，需遵守 ctx。
type Loader func(ctx context.Context) (*SessionCredentials, error)

// RefreshableProvider 后台续期的凭证供给。
//
// 构造时同步加载一次；首次加载失败不会导致构造失败，
// 后台会以 MinWait 为间隔持续重试，期间 SessionCredentials 返回 ErrCredentialsUnavailable。
//
// 续期时机：
//   - 有过期时间：ExpiresAt - RefreshAhead
//   - 永久凭证：每隔 RefreshInterval 重新加载，以感知轮换
//
// 单轮续期内的失败按 xretry 指数退避重试；整轮失败保留旧值，直到其真正过期。
type RefreshableProvider struct {
	loader Loader
	opts   *options

	current atomic.Pointer[SessionCredentials]

	mu      sync.Mutex
	lastErr error

	loads atomic.Int64

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRefreshableProvider 创建并启动后台续期。ctx 只约束首次加载。
func NewRefreshableProvider(ctx context.Context, loader Loader, opts ...Option) (*RefreshableProvider, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	if ctx == nil {
		ctx = context.Background()
	}
	o := applyOptions(opts)
	bg, cancel := context.WithCancel(context.Background())
	p := &RefreshableProvider{
		loader: loader,
		opts:   o,
		ctx:    bg,
		cancel: cancel,
	}

	if err := p.refresh(ctx); err != nil {
		o.logger.Warn("xauth: initial credentials load failed, will retry in background", xlog.Err(err))
	}

	p.wg.Add(1)
	go p.run()
	return p, nil
}

// SessionCredentials 返回当前缓存的凭证。
func (p *RefreshableProvider) SessionCredentials() (*SessionCredentials, error) {
	c := p.current.Load()
	if c == nil {
		p.mu.Lock()
		cause := p.lastErr
		p.mu.Unlock()
		if cause != nil {
			return nil, fmt.Errorf("%w: never loaded: %w", ErrCredentialsUnavailable, cause)
		}
		return nil, fmt.Errorf("%w: never loaded", ErrCredentialsUnavailable)
	}
	if c.ExpiredAt(p.opts.now()) {
		return nil, fmt.Errorf("%w: expired at %s", ErrCredentialsUnavailable, c.ExpiresAt.Format(time.RFC3339))
	}
	return c, nil
}

// Loads 返回成功加载的次数。
func (p *RefreshableProvider) Loads() int64 {
	return p.loads.Load()
}

// Close 停止后台续期并等待其退出。可重复调用。
func (p *RefreshableProvider) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
	return nil
}

func (p *RefreshableProvider) run() {
	defer p.wg.Done()
	timer := time.NewTimer(p.nextWait())
	defer timer.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-timer.C:
		}
		if err := p.refresh(p.ctx); err != nil && p.ctx.Err() == nil {
			p.opts.logger.Warn("xauth: credentials refresh failed, keeping previous value", xlog.Err(err))
		}
		timer.Reset(p.nextWait())
	}
}

func (p *RefreshableProvider) nextWait() time.Duration {
	c := p.current.Load()
	if c == nil {
		return p.opts.minWait
	}
	var d time.Duration
	if c.NeverExpires() {
		d = p.opts.refreshInterval
	} else {
		d = c.ExpiresAt.Sub(p.opts.now()) - p.opts.refreshAhead
	}
	return max(d, p.opts.minWait)
}

func (p *RefreshableProvider) refresh(ctx context.Context) error {
	c, err := xretry.DoWithResult(ctx, p.opts.retryer, p.loadOnce)
	if err != nil {
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		return err
	}
	p.current.Store(c)
	p.loads.Add(1)
	p.mu.Lock()
	p.lastErr = nil
	p.mu.Unlock()
	p.opts.logger.Debug("xauth: credentials loaded", slog.String("credentials", c.String()))
	return nil
}

func (p *RefreshableProvider) loadOnce(ctx context.Context) (*SessionCredentials, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.loadTimeout)
	defer cancel()
	c, err := p.loader(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		// 源数据本身有问题，重试无意义。
		return nil, xretry.NewPermanentError(err)
	}
	return c.normalize(), nil
}

var _ Provider = (*RefreshableProvider)(nil)
