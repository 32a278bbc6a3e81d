package mqcore

import (
	"context"
	"errors"
	"sync"
)

// Lifetime 表示一个客户端实例的存活期。
//
// 客户端构造时创建，Close 时结束。所有由该客户端发起的调用都通过 Bind
// 把调用方 ctx 与存活期合并：存活期结束后，进行中的调用立即被取消，
// 取消原因（context.Cause）为 ErrClosed，调用方据此区分"关闭"与"超时"。
type Lifetime struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	once   sync.Once
}

// NewLifetime 创建存活期。
func NewLifetime() *Lifetime {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &Lifetime{ctx: ctx, cancel: cancel}
}

// Context 返回存活期 ctx，用于后台任务。
func (l *Lifetime) Context() context.Context {
	return l.ctx
}

// Done 返回存活期结束信号。
func (l *Lifetime) Done() <-chan struct{} {
	return l.ctx.Done()
}

// Alive 报告存活期是否尚未结束。
func (l *Lifetime) Alive() bool {
	return l.ctx.Err() == nil
}

// End 结束存活期。重复调用无副作用，返回值表示本次调用是否真正结束了存活期。
func (l *Lifetime) End() bool {
	ended := false
	l.once.Do(func() {
		l.cancel(ErrClosed)
		ended = true
	})
	return ended
}

// Bind 将调用方 ctx 与存活期合并。
// 返回的 stop 必须被调用以释放 AfterFunc 注册。
func (l *Lifetime) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	stop := context.AfterFunc(l.ctx, func() {
		cancel(ErrClosed)
	})
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}

// IsClosed 判断 ctx 是否因存活期结束而被取消。
func IsClosed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	return errors.Is(context.Cause(ctx), ErrClosed)
}
