package xretry

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// Retryer 组合 RetryPolicy 与 BackoffPolicy 的重试执行器。
// 零值不可用，请通过 NewRetryer 创建。
type Retryer struct {
	retryPolicy   RetryPolicy
	backoffPolicy BackoffPolicy
	onRetry       func(attempt int, err error)
}

// RetryerOption 执行器配置选项。
type RetryerOption func(*Retryer)

// WithRetryPolicy 设置重试策略，nil 被忽略。
func WithRetryPolicy(p RetryPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.retryPolicy = p
		}
	}
}

// WithBackoffPolicy 设置退避策略，nil 被忽略。
func WithBackoffPolicy(p BackoffPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.backoffPolicy = p
		}
	}
}

// WithOnRetry 设置每次失败后的回调，attempt 从 1 开始。
func WithOnRetry(f func(attempt int, err error)) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.onRetry = f
		}
	}
}

// NewRetryer 创建执行器，默认 FixedRetry(3) + ExponentialBackoff。
func NewRetryer(opts ...RetryerOption) *Retryer {
	r := &Retryer{
		retryPolicy:   NewFixedRetry(3),
		backoffPolicy: NewExponentialBackoff(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do 执行 fn 直到成功、策略拒绝重试或 ctx 结束。
// 返回值为最后一次失败的错误。
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := r.check(ctx, fn == nil); err != nil {
		return err
	}
	return retry.New(r.options(ctx)...).Do(func() error {
		return fn(ctx)
	})
}

// DoWithResult 是 Do 的带返回值版本。
func DoWithResult[T any](ctx context.Context, r *Retryer, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := r.check(ctx, fn == nil); err != nil {
		return zero, err
	}
	return retry.NewWithData[T](r.options(ctx)...).Do(func() (T, error) {
		return fn(ctx)
	})
}

// MaxAttempts 返回当前策略的尝试上限。
func (r *Retryer) MaxAttempts() int {
	if r == nil || r.retryPolicy == nil {
		return 0
	}
	return r.retryPolicy.MaxAttempts()
}

func (r *Retryer) check(ctx context.Context, nilFn bool) error {
	switch {
	case r == nil:
		return ErrNilRetryer
	case ctx == nil:
		return ErrNilContext
	case nilFn:
		return ErrNilFunc
	}
	return nil
}

// options 每次调用重建，attemptCount 属于单次 Do 调用。
func (r *Retryer) options(ctx context.Context) []retry.Option {
	policy := r.retryPolicy
	if policy == nil {
		policy = NewFixedRetry(3)
	}
	backoff := r.backoffPolicy
	if backoff == nil {
		backoff = NoBackoff{}
	}

	opts := make([]retry.Option, 0, 6)
	opts = append(opts, retry.Context(ctx))
	if n := policy.MaxAttempts(); n > 0 {
		opts = append(opts, retry.Attempts(uint(n)))
	} else {
		opts = append(opts, retry.UntilSucceeded())
	}

	var attemptCount atomic.Int64
	opts = append(opts,
		retry.RetryIf(func(err error) bool {
			attempt := int(attemptCount.Add(1))
			if !retry.IsRecoverable(err) {
				return false
			}
			return policy.ShouldRetry(ctx, attempt, err)
		}),
		// retry-go v5 的 DelayType 中 n 从 1 开始，与 NextDelay 一致。
		retry.DelayType(func(n uint, _ error, _ retry.DelayContext) time.Duration {
			return backoff.NextDelay(clampInt(n))
		}),
		retry.LastErrorOnly(true),
	)
	if r.onRetry != nil {
		onRetry := r.onRetry
		// OnRetry 的 n 从 0 开始。
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			onRetry(clampInt(n)+1, err)
		}))
	}
	return opts
}

func clampInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}

// Unrecoverable 将错误标记为 retry-go 层面的不可恢复。
func Unrecoverable(err error) error {
	return retry.Unrecoverable(err)
}
