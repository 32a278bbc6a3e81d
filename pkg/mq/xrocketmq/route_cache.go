package xrocketmq

import (
	"sort"
	"sync"
	"time"
)

// routeCache topic → 路由快照。
//
// 快照只整体替换不原地修改，读者拿到的指针始终一致。
type routeCache struct {
	mu         sync.RWMutex
	routes     map[string]*TopicRouteData
	pending    map[string]int
	unroutable map[string]struct{}
}

func newRouteCache() *routeCache {
	return &routeCache{
		routes:     make(map[string]*TopicRouteData),
		pending:    make(map[string]int),
		unroutable: make(map[string]struct{}),
	}
}

func (c *routeCache) get(topic string) (*TopicRouteData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.routes[topic]
	return r, ok
}

// put 替换 topic 的快照，同时清除不可路由标记。
func (c *routeCache) put(r *TopicRouteData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes[r.Topic] = r
	delete(c.unroutable, r.Topic)
}

// markUnroutable 仅在没有缓存时生效；已有快照的 topic 保留旧数据。
func (c *routeCache) markUnroutable(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.routes[topic]; ok {
		return
	}
	c.unroutable[topic] = struct{}{}
}

func (c *routeCache) beginFetch(topic string) {
	c.mu.Lock()
	c.pending[topic]++
	c.mu.Unlock()
}

func (c *routeCache) endFetch(topic string) {
	c.mu.Lock()
	if c.pending[topic] <= 1 {
		delete(c.pending, topic)
	} else {
		c.pending[topic]--
	}
	c.mu.Unlock()
}

// topics 返回已缓存的 topic，按名称排序。
func (c *routeCache) topics() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.routes))
	for t := range c.routes {
		out = append(out, t)
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}

// endpoints 返回全部快照引用的 broker 端点。
func (c *routeCache) endpoints() map[string]struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]struct{})
	for _, r := range c.routes {
		for _, q := range r.Queues {
			out[q.Broker.Endpoints] = struct{}{}
		}
	}
	return out
}

func (c *routeCache) state(topic string, now time.Time, ttl time.Duration) RouteState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.routes[topic]; ok {
		if ttl > 0 && r.Age(now) >= ttl {
			return RouteStale
		}
		return RouteFresh
	}
	if c.pending[topic] > 0 {
		return RoutePending
	}
	if _, ok := c.unroutable[topic]; ok {
		return RouteUnroutable
	}
	return RouteUnregistered
}

func (c *routeCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.routes)
	clear(c.pending)
	clear(c.unroutable)
}
