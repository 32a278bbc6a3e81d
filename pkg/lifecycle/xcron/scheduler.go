package xcron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	// ErrNilJob 任务为 nil。
	ErrNilJob = errors.New("xcron: job cannot be nil")

	// ErrInvalidInterval 间隔不合法。
	ErrInvalidInterval = errors.New("xcron: interval must be positive")
)

// JobID 任务标识，直接复用 cron.EntryID。
type JobID = cron.EntryID

// Job 周期任务。ctx 在调度器停止或单次超时时取消。
type Job func(ctx context.Context) error

// Option 调度器选项。
type Option func(*Scheduler)

// WithLogger 设置日志，nil 使用 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// JobOption 任务选项。
type JobOption func(*jobOptions)

type jobOptions struct {
	timeout time.Duration
}

// WithTimeout 设置单次执行超时。
func WithTimeout(d time.Duration) JobOption {
	return func(o *jobOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Scheduler 周期任务调度器。
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	stats  *Stats

	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
}

// New 创建调度器。所有任务都带重入保护。
func New(opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		logger: slog.Default(),
		stats:  newStats(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	cl := cronLogger{logger: s.logger}
	s.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return s
}

// Every 按固定间隔执行 job，首次执行在一个间隔之后。
// robfig/cron 的间隔精度为秒，不足 1s 按 1s 处理。
func (s *Scheduler) Every(name string, interval time.Duration, job Job, opts ...JobOption) (JobID, error) {
	if interval <= 0 {
		return 0, ErrInvalidInterval
	}
	return s.Add(name, "@every "+interval.String(), job, opts...)
}

// Add 按 cron 表达式添加任务。
func (s *Scheduler) Add(name, spec string, job Job, opts ...JobOption) (JobID, error) {
	if job == nil {
		return 0, ErrNilJob
	}
	o := &jobOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	w := &jobWrapper{name: name, job: job, opts: o, s: s}
	id, err := s.cron.AddJob(spec, w)
	if err != nil {
		return 0, fmt.Errorf("xcron: failed to add job %s: %w", name, err)
	}
	return id, nil
}

// Start 启动调度。
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 取消所有任务 ctx 并等待执行中的任务结束，最多等到 ctx 结束。可重复调用。
func (s *Scheduler) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.cancel()
		done := s.cron.Stop()
		if ctx == nil {
			<-done.Done()
			return
		}
		select {
		case <-done.Done():
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}

// Stats 返回执行统计。
func (s *Scheduler) Stats() *Stats {
	return s.stats
}

// Len 已注册任务数。
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

type jobWrapper struct {
	name string
	job  Job
	opts *jobOptions
	s    *Scheduler
}

// Run 实现 cron.Job。
func (w *jobWrapper) Run() {
	ctx := w.s.ctx
	if ctx.Err() != nil {
		return
	}
	if w.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.timeout)
		defer cancel()
	}
	start := time.Now()
	err := w.job(ctx)
	elapsed := time.Since(start)
	w.s.stats.record(w.name, elapsed, err)
	if err != nil && w.s.ctx.Err() == nil {
		w.s.logger.Warn("xcron: job failed", slog.String("job", w.name), slog.Any("error", err), slog.Duration("duration", elapsed))
		return
	}
	w.s.logger.Debug("xcron: job completed", slog.String("job", w.name), slog.Duration("duration", elapsed))
}

// cronLogger 把 cron.Logger 适配到 slog。
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	// robfig/cron 的 Info 日志（schedule/wake/run）非常频繁，降为 Debug。
	l.logger.Debug("xcron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("xcron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
