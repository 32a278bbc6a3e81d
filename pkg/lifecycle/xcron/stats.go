package xcron

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats 任务执行统计，并发安全。
type Stats struct {
	executions atomic.Int64
	failures   atomic.Int64

	jobs sync.Map // map[string]*JobStats
}

// JobStats 单个任务的统计。
type JobStats struct {
	Name string

	executions    atomic.Int64
	failures      atomic.Int64
	totalDuration atomic.Int64

	mu        sync.RWMutex
	lastRun   time.Time
	lastError error
}

func newStats() *Stats { return &Stats{} }

// Executions 总执行次数。
func (s *Stats) Executions() int64 { return s.executions.Load() }

// Failures 总失败次数。
func (s *Stats) Failures() int64 { return s.failures.Load() }

// Job 返回指定任务的统计，未执行过返回 nil。
func (s *Stats) Job(name string) *JobStats {
	if v, ok := s.jobs.Load(name); ok {
		return v.(*JobStats)
	}
	return nil
}

func (s *Stats) record(name string, d time.Duration, err error) {
	s.executions.Add(1)
	if err != nil {
		s.failures.Add(1)
	}
	v, _ := s.jobs.LoadOrStore(name, &JobStats{Name: name})
	js := v.(*JobStats)
	js.executions.Add(1)
	js.totalDuration.Add(int64(d))
	if err != nil {
		js.failures.Add(1)
	}
	js.mu.Lock()
	js.lastRun = time.Now()
	js.lastError = err
	js.mu.Unlock()
}

// Executions 执行次数。
func (j *JobStats) Executions() int64 { return j.executions.Load() }

// Failures 失败次数。
func (j *JobStats) Failures() int64 { return j.failures.Load() }

// AvgDuration 平均耗时。
func (j *JobStats) AvgDuration() time.Duration {
	n := j.executions.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(j.totalDuration.Load() / n)
}

// LastRun 最后一次执行结束时间。
func (j *JobStats) LastRun() time.Time {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lastRun
}

// LastError 最后一次执行的错误，nil 表示成功。
func (j *JobStats) LastError() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lastError
}
