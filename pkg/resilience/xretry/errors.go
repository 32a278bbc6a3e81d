package xretry

import "errors"

var (
	// ErrNilRetryer 表示 Retryer 为 nil。
	ErrNilRetryer = errors.New("xretry: nil retryer")
	// ErrNilContext 表示 ctx 为 nil。
	ErrNilContext = errors.New("xretry: nil context")
	// ErrNilFunc 表示待执行函数为 nil。
	ErrNilFunc = errors.New("xretry: nil func")
)

// RetryableError 由能自行声明是否可重试的错误实现。
type RetryableError interface {
	error
	Retryable() bool
}

// PermanentError 标记不应重试的错误。
type PermanentError struct {
	Err error
}

// NewPermanentError 包装 err 为永久性错误。
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "xretry: permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error { return e.Err }

// Retryable 总是返回 false。
func (e *PermanentError) Retryable() bool { return false }

// IsRetryable 判断错误是否可重试。
//
// nil 返回 false；错误链中存在 RetryableError 时以其 Retryable() 为准；
// 其余错误视为可重试。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return true
}
