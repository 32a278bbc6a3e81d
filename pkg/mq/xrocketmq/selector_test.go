package xrocketmq

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeQueues() []MessageQueue {
	return []MessageQueue{
		testQueue(testTopic, 0, "broker-a"),
		testQueue(testTopic, 1, "broker-b"),
		testQueue(testTopic, 2, "broker-c"),
	}
}

func TestQueueSelector_StartAdvancesOncePerCall(t *testing.T) {
	var s queueSelector
	got := []int{s.start(testTopic, "", 3), s.start(testTopic, "", 3), s.start(testTopic, "", 3), s.start(testTopic, "", 3)}
	assert.Equal(t, []int{0, 1, 2, 0}, got)

	// 各 topic 独立计数。
	assert.Equal(t, 0, s.start("audit", "", 3))
}

func TestQueueSelector_CursorSurvivesRouteResize(t *testing.T) {
	var s queueSelector
	s.start(testTopic, "", 2)
	s.start(testTopic, "", 2)
	assert.Equal(t, 2, s.start(testTopic, "", 5))
}

func TestQueueSelector_GroupIsStable(t *testing.T) {
	var s queueSelector
	first := s.start(testTopic, "user-1", 8)
	for range 10 {
		assert.Equal(t, first, s.start(testTopic, "user-1", 8))
	}
	assert.Zero(t, s.start(testTopic, "", 0))
}

func TestQueueSelector_Concurrent(t *testing.T) {
	var s queueSelector
	const n = 100
	var wg sync.WaitGroup
	counts := make([]int, 4)
	var mu sync.Mutex
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			i := s.start(testTopic, "", 4)
			mu.Lock()
			counts[i]++
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, []int{25, 25, 25, 25}, counts)
}

func TestSelectQueue_SkipsTried(t *testing.T) {
	queues := threeQueues()
	tried := map[MessageQueue]struct{}{queues[1]: {}}

	assert.Equal(t, queues[2], selectQueue(queues, 1, 1, tried, &queues[1], nil))

	tried[queues[2]] = struct{}{}
	assert.Equal(t, queues[0], selectQueue(queues, 1, 2, tried, &queues[2], nil))
}

func TestSelectQueue_PrefersHealthyEndpoints(t *testing.T) {
	queues := threeQueues()
	isolated := func(ep string) bool { return ep == "broker-a:8081" }

	assert.Equal(t, queues[1], selectQueue(queues, 0, 0, map[MessageQueue]struct{}{}, nil, isolated))

	// 全部隔离时退回第一个未尝试的队列。
	all := func(string) bool { return true }
	assert.Equal(t, queues[0], selectQueue(queues, 0, 0, map[MessageQueue]struct{}{}, nil, all))
}

func TestSelectQueue_AllTriedAvoidsLast(t *testing.T) {
	queues := threeQueues()
	tried := map[MessageQueue]struct{}{queues[0]: {}, queues[1]: {}, queues[2]: {}}

	got := selectQueue(queues, 0, 3, tried, &queues[0], nil)
	assert.NotEqual(t, queues[0], got)
}

func TestSelectQueue_SingleQueue(t *testing.T) {
	q := testQueue(testTopic, 0, "broker-a")
	tried := map[MessageQueue]struct{}{q: {}}
	assert.Equal(t, q, selectQueue([]MessageQueue{q}, 0, 1, tried, &q, nil))
}

func TestIsolator(t *testing.T) {
	iso := newIsolator(2, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	const ep = "broker-a:8081"
	assert.False(t, iso.isolated(ep))

	iso.record(ep, ErrMessageRejected)
	iso.record(ep, ErrMessageRejected)
	assert.False(t, iso.isolated(ep), "rejections do not isolate")

	iso.record(ep, transientErr(ep))
	iso.record(ep, transientErr(ep))
	require.True(t, iso.isolated(ep))
	assert.False(t, iso.isolated("broker-b:8081"))

	// 隔离期间的结果被忽略。
	iso.record(ep, nil)
	assert.True(t, iso.isolated(ep))
}

func TestSelectQueue_AvoidsIsolatedEndpoint(t *testing.T) {
	queues := threeQueues()
	iso := newIsolator(1, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	iso.record(queues[0].Broker.Endpoints, transientErr(queues[0].Broker.Endpoints))

	got := selectQueue(queues, 0, 0, map[MessageQueue]struct{}{}, nil, iso.isolated)
	assert.Equal(t, queues[1], got)
}
