package xretry

import "context"

// FixedRetryPolicy 固定次数重试策略。
type FixedRetryPolicy struct {
	maxAttempts int
}

// NewFixedRetry 创建固定次数重试策略，maxAttempts 小于 1 时按 1 处理。
func NewFixedRetry(maxAttempts int) *FixedRetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &FixedRetryPolicy{maxAttempts: maxAttempts}
}

// MaxAttempts 返回最大尝试次数。
func (p *FixedRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// ShouldRetry 在 ctx 未结束、次数未用尽且错误可重试时返回 true。
func (p *FixedRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	if ctx.Err() != nil || attempt >= p.maxAttempts {
		return false
	}
	return IsRetryable(err)
}

var _ RetryPolicy = (*FixedRetryPolicy)(nil)
