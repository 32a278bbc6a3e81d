package xrocketmq

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// queueSelector 维护每个 topic 的轮转游标。
//
// 游标独立于路由快照，路由替换后轮转继续。
type queueSelector struct {
	cursors sync.Map // topic → *atomic.Uint64
}

// start 返回本次 Send 的起始下标，每次调用只推进一次游标。
func (s *queueSelector) start(topic, group string, n int) int {
	if n <= 0 {
		return 0
	}
	if group != "" {
		return int(xxhash.Sum64String(group) % uint64(n))
	}
	v, _ := s.cursors.LoadOrStore(topic, new(atomic.Uint64))
	return int((v.(*atomic.Uint64).Add(1) - 1) % uint64(n))
}

// selectQueue 从 start 开始挑选本次尝试的队列。
//
// 优先级：未尝试且端点未隔离 > 未尝试 > 已全部尝试时按尝试序号轮转，
// 尽量避开上一次的队列。
func selectQueue(queues []MessageQueue, start, attempt int, tried map[MessageQueue]struct{}, last *MessageQueue, isolated func(string) bool) MessageQueue {
	n := len(queues)
	if n == 1 {
		return queues[0]
	}
	fallback := -1
	for i := range n {
		idx := (start + i) % n
		q := queues[idx]
		if _, ok := tried[q]; ok {
			continue
		}
		if isolated == nil || !isolated(q.Broker.Endpoints) {
			return q
		}
		if fallback < 0 {
			fallback = idx
		}
	}
	if fallback >= 0 {
		return queues[fallback]
	}
	idx := (start + attempt) % n
	if last != nil && queues[idx] == *last {
		idx = (idx + 1) % n
	}
	return queues[idx]
}
