package xbreaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

type (
	// Counts 熔断统计计数。
	Counts = gobreaker.Counts
	// State 熔断器状态。
	State = gobreaker.State
)

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// Breaker 两步模式熔断器。
type Breaker struct {
	name          string
	tripPolicy    TripPolicy
	successPolicy SuccessPolicy
	timeout       time.Duration
	interval      time.Duration
	maxRequests   uint32
	onStateChange func(name string, from, to State)

	cb *gobreaker.TwoStepCircuitBreaker[struct{}]
}

// BreakerOption 熔断器配置选项。
type BreakerOption func(*Breaker)

// WithTripPolicy 设置熔断判定策略，默认连续失败 5 次。
func WithTripPolicy(p TripPolicy) BreakerOption {
	return func(b *Breaker) {
		if p != nil {
			b.tripPolicy = p
		}
	}
}

// WithSuccessPolicy 设置成功判定策略。
func WithSuccessPolicy(p SuccessPolicy) BreakerOption {
	return func(b *Breaker) {
		if p != nil {
			b.successPolicy = p
		}
	}
}

// WithTimeout 设置 Open → HalfOpen 的等待时间，默认 30 秒。
func WithTimeout(d time.Duration) BreakerOption {
	return func(b *Breaker) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithInterval 设置 Closed 状态下统计清零周期，0 表示不清零。
func WithInterval(d time.Duration) BreakerOption {
	return func(b *Breaker) {
		if d >= 0 {
			b.interval = d
		}
	}
}

// WithMaxRequests 设置 HalfOpen 状态允许的探测请求数，默认 1。
func WithMaxRequests(n uint32) BreakerOption {
	return func(b *Breaker) {
		if n > 0 {
			b.maxRequests = n
		}
	}
}

// WithOnStateChange 设置状态变化回调。
func WithOnStateChange(fn func(name string, from, to State)) BreakerOption {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

// NewBreaker 创建熔断器。
func NewBreaker(name string, opts ...BreakerOption) *Breaker {
	b := &Breaker{
		name:        name,
		tripPolicy:  NewConsecutiveFailures(5),
		timeout:     30 * time.Second,
		maxRequests: 1,
	}
	for _, opt := range opts {
		opt(b)
	}

	// gobreaker v2: done(err) 的成败由 IsSuccessful 判定
	st := gobreaker.Settings{
		Name:         b.name,
		MaxRequests:  b.maxRequests,
		Interval:     b.interval,
		Timeout:      b.timeout,
		ReadyToTrip:  b.tripPolicy.ReadyToTrip,
		IsSuccessful: b.isSuccessful,
	}
	if b.onStateChange != nil {
		onChange := b.onStateChange
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			onChange(name, from, to)
		}
	}
	b.cb = gobreaker.NewTwoStepCircuitBreaker[struct{}](st)
	return b
}

// Allow 申请一次放行。
//
// 放行时返回 done，调用方必须以操作结果调用且仅调用一次；
// 拒绝时返回 *BreakerError。
func (b *Breaker) Allow() (done func(err error), err error) {
	report, err := b.cb.Allow()
	if err != nil {
		return nil, wrapRejection(err, b.name)
	}
	return report, nil
}

// Do 在熔断保护下执行 fn。
func (b *Breaker) Do(ctx context.Context, fn func() error) error {
	if fn == nil {
		return ErrNilFunc
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	done, err := b.Allow()
	if err != nil {
		return err
	}
	opErr := fn()
	done(opErr)
	return opErr
}

// Name 返回熔断器名称。
func (b *Breaker) Name() string { return b.name }

// State 返回当前状态。
func (b *Breaker) State() State { return b.cb.State() }

// Counts 返回当前计数。
func (b *Breaker) Counts() Counts { return b.cb.Counts() }

func (b *Breaker) isSuccessful(err error) bool {
	if b.successPolicy != nil {
		return b.successPolicy.IsSuccessful(err)
	}
	return err == nil
}
