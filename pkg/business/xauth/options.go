package xauth

import (
	"log/slog"
	"time"

	"github.com/omeyang/xrocketmq/pkg/resilience/xretry"
)

const (
	// DefaultRefreshAhead 默认提前续期时间。
	DefaultRefreshAhead = time.Minute

	// DefaultRefreshInterval 永久凭证的默认重新加载周期。
	DefaultRefreshInterval = 10 * time.Minute

	// DefaultLoadTimeout 单次加载的默认超时。
	DefaultLoadTimeout = 5 * time.Second

	// DefaultMinWait 两次续期之间的最小间隔，避免临近过期时忙等。
	DefaultMinWait = time.Second

	defaultLoadAttempts = 3
)

// Option Provider 配置选项。
type Option func(*options)

type options struct {
	logger          *slog.Logger
	refreshAhead    time.Duration
	refreshInterval time.Duration
	loadTimeout     time.Duration
	minWait         time.Duration
	retryer         *xretry.Retryer
	section         string
	debounce        time.Duration
	now             func() time.Time
}

func defaultOptions() *options {
	return &options{
		logger:          slog.Default(),
		refreshAhead:    DefaultRefreshAhead,
		refreshInterval: DefaultRefreshInterval,
		loadTimeout:     DefaultLoadTimeout,
		minWait:         DefaultMinWait,
		retryer: xretry.NewRetryer(
			xretry.WithRetryPolicy(xretry.NewFixedRetry(defaultLoadAttempts)),
			xretry.WithBackoffPolicy(xretry.NewExponentialBackoff(
				xretry.WithInitialDelay(200*time.Millisecond),
				xretry.WithMaxDelay(5*time.Second),
			)),
		),
		debounce: 100 * time.Millisecond,
		now:      time.Now,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithLogger 设置日志，nil 使用 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRefreshAhead 设置提前续期时间。
func WithRefreshAhead(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.refreshAhead = d
		}
	}
}

// WithRefreshInterval 设置永久凭证的重新加载周期。
func WithRefreshInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.refreshInterval = d
		}
	}
}

// WithLoadTimeout 设置单次加载超时。
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.loadTimeout = d
		}
	}
}

// WithMinWait 设置两次续期的最小间隔。
func WithMinWait(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.minWait = d
		}
	}
}

// WithLoadRetryer 设置单轮续期的重试执行器。
func WithLoadRetryer(r *xretry.Retryer) Option {
	return func(o *options) {
		if r != nil {
			o.retryer = r
		}
	}
}

// WithSection 设置 FileProvider 读取的配置路径，如 "credentials"；默认读取根。
func WithSection(path string) Option {
	return func(o *options) {
		o.section = path
	}
}

// WithDebounce 设置 FileProvider 文件变更的去抖时间。
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// withClock 替换时钟，仅测试使用。
func withClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
