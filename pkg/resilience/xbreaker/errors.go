package xbreaker

import (
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrOpenState 熔断器处于 Open 状态。
	ErrOpenState = gobreaker.ErrOpenState
	// ErrTooManyRequests HalfOpen 状态下探测请求已满。
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
	// ErrNilFunc 传入的操作函数为 nil。
	ErrNilFunc = errors.New("xbreaker: function cannot be nil")
)

// BreakerError 包装熔断拒绝，Retryable 返回 false，
// 与 xretry 组合时熔断拒绝不会被原地重试。
type BreakerError struct {
	Err   error
	Name  string
	State State
}

func (e *BreakerError) Error() string {
	return fmt.Sprintf("breaker %s: %v", e.Name, e.Err)
}

func (e *BreakerError) Unwrap() error { return e.Err }

// Retryable 总是返回 false。
func (e *BreakerError) Retryable() bool { return false }

// wrapRejection 只包装 gobreaker 的两个拒绝哨兵，状态由错误推导，
// 避免返回后再查询 State() 的竞态。
func wrapRejection(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState):
		return &BreakerError{Err: err, Name: name, State: StateOpen}
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return &BreakerError{Err: err, Name: name, State: StateHalfOpen}
	default:
		return err
	}
}

// IsOpen 判断错误是否为 Open 状态拒绝。
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState)
}

// IsRejected 判断错误是否为熔断拒绝（Open 或 HalfOpen 限流）。
func IsRejected(err error) bool {
	var be *BreakerError
	return errors.As(err, &be)
}
