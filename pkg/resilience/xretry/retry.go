package xretry

import (
	"context"
	"time"
)

// RetryPolicy 定义重试策略。
//
// MaxAttempts 作为硬上限传给 retry-go；ShouldRetry 在每次失败后调用，
// 可以提前终止，但不会突破上限。
type RetryPolicy interface {
	// MaxAttempts 返回最大尝试次数（包含首次尝试），0 表示不限次数。
	MaxAttempts() int

	// ShouldRetry 判断第 attempt 次（从 1 开始）失败后是否继续。
	ShouldRetry(ctx context.Context, attempt int, err error) bool
}

// BackoffPolicy 定义退避策略。
type BackoffPolicy interface {
	// NextDelay 返回第 attempt 次（从 1 开始）失败后的等待时间。
	NextDelay(attempt int) time.Duration
}
