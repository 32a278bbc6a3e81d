package xretry

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// NoBackoff 立即重试。
type NoBackoff struct{}

// NewNoBackoff 创建无延迟退避。
func NewNoBackoff() NoBackoff { return NoBackoff{} }

// NextDelay 总是返回 0。
func (NoBackoff) NextDelay(_ int) time.Duration { return 0 }

// FixedBackoff 固定延迟。
type FixedBackoff struct {
	delay time.Duration
}

// NewFixedBackoff 创建固定延迟退避，负数按 0 处理。
func NewFixedBackoff(delay time.Duration) *FixedBackoff {
	return &FixedBackoff{delay: max(delay, 0)}
}

// NextDelay 返回固定延迟。
func (b *FixedBackoff) NextDelay(_ int) time.Duration { return b.delay }

// ExponentialBackoff 带抖动的指数退避。
type ExponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	jitter       float64
}

// ExponentialBackoffOption 指数退避配置选项。
type ExponentialBackoffOption func(*ExponentialBackoff)

// WithInitialDelay 设置首次延迟，非正值被忽略。
func WithInitialDelay(d time.Duration) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.initialDelay = d
		}
	}
}

// WithMaxDelay 设置延迟上限，非正值被忽略。
func WithMaxDelay(d time.Duration) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.maxDelay = d
		}
	}
}

// WithMultiplier 设置增长倍数，小于 1 的值被忽略。
func WithMultiplier(m float64) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if m >= 1 {
			b.multiplier = m
		}
	}
}

// WithJitter 设置抖动比例，取值 [0, 1]。
func WithJitter(j float64) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if j >= 0 && j <= 1 {
			b.jitter = j
		}
	}
}

// NewExponentialBackoff 创建指数退避。
// 默认 initialDelay=100ms, maxDelay=30s, multiplier=2, jitter=0.1。
func NewExponentialBackoff(opts ...ExponentialBackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: 100 * time.Millisecond,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
		jitter:       0.1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxDelay < b.initialDelay {
		b.maxDelay = b.initialDelay
	}
	return b
}

// NextDelay 返回 initialDelay * multiplier^(attempt-1)，叠加抖动后截断到 maxDelay。
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	attempt = max(attempt, 1)
	delay := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt-1))
	if b.jitter > 0 {
		delay *= 1.0 + (randomFloat64()*2-1)*b.jitter
	}
	// +Inf 乘以 0 会得到 NaN，NaN 的比较恒为 false，需要单独拦截。
	if math.IsNaN(delay) || delay < 0 || delay >= float64(b.maxDelay) {
		return b.maxDelay
	}
	return time.Duration(delay)
}

var (
	_ BackoffPolicy = NoBackoff{}
	_ BackoffPolicy = (*FixedBackoff)(nil)
	_ BackoffPolicy = (*ExponentialBackoff)(nil)
)

func randomFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) / (1 << 53)
}
