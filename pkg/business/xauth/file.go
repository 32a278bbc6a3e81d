package xauth

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xrocketmq/pkg/config/xconf"
	"github.com/omeyang/xrocketmq/pkg/observability/xlog"
)

// fileCredentials 文件中的凭证结构。
//
//	access_key: AK
//	access_secret: SK
//	security_token: ""        # 可选
//	expires_at: "2026-01-02T15:04:05Z"   # 可选，RFC3339 或 Unix 秒
type fileCredentials struct {
	AccessKey     string `koanf:"access_key"`
	AccessSecret  string `koanf:"access_secret"`
	SecurityToken string `koanf:"security_token"`
	ExpiresAt     string `koanf:"expires_at"`
}

// FileProvider 从文件读取凭证，文件变更时重新加载。
//
// 重新加载失败（格式错误、字段缺失）保留旧值。
type FileProvider struct {
	cfg     *xconf.Config
	watcher *xconf.Watcher
	opts    *options

	current atomic.Pointer[SessionCredentials]
	reloads atomic.Int64

	closeOnce sync.Once
	closeErr  error
}

// NewFileProvider 读取 path 并开始监听。首次读取失败直接返回错误。
func NewFileProvider(path string, opts ...Option) (*FileProvider, error) {
	o := applyOptions(opts)
	cfg, err := xconf.New(path)
	if err != nil {
		return nil, err
	}
	p := &FileProvider{cfg: cfg, opts: o}
	c, err := p.decode()
	if err != nil {
		return nil, err
	}
	p.current.Store(c)

	w, err := xconf.Watch(cfg, p.onChange, xconf.WithDebounce(o.debounce))
	if err != nil {
		return nil, err
	}
	p.watcher = w
	return p, nil
}

// SessionCredentials 返回当前凭证，已过期时返回 ErrCredentialsUnavailable。
func (p *FileProvider) SessionCredentials() (*SessionCredentials, error) {
	c := p.current.Load()
	if c.ExpiredAt(p.opts.now()) {
		return nil, fmt.Errorf("%w: file credentials expired", ErrCredentialsUnavailable)
	}
	return c, nil
}

// Reloads 返回文件变更后成功重新加载的次数。
func (p *FileProvider) Reloads() int64 {
	return p.reloads.Load()
}

// Close 停止监听。可重复调用。
func (p *FileProvider) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.watcher.Stop()
	})
	return p.closeErr
}

func (p *FileProvider) onChange(_ *xconf.Config, err error) {
	if err != nil {
		p.opts.logger.Warn("xauth: credentials file reload failed", xlog.Err(err))
		return
	}
	c, err := p.decode()
	if err != nil {
		p.opts.logger.Warn("xauth: credentials file invalid, keeping previous value", xlog.Err(err))
		return
	}
	p.current.Store(c)
	p.reloads.Add(1)
	p.opts.logger.Info("xauth: credentials file reloaded")
}

func (p *FileProvider) decode() (*SessionCredentials, error) {
	var fc fileCredentials
	if err := p.cfg.Unmarshal(p.opts.section, &fc); err != nil {
		return nil, err
	}
	exp, err := parseExpiry(fc.ExpiresAt)
	if err != nil {
		return nil, err
	}
	c := &SessionCredentials{
		AccessKey:     fc.AccessKey,
		AccessSecret:  fc.AccessSecret,
		SecurityToken: fc.SecurityToken,
		ExpiresAt:     exp,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var _ Provider = (*FileProvider)(nil)
