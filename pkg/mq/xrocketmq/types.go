package xrocketmq

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/omeyang/xrocketmq/internal/mqcore"
)

// Tracer 消息级链路追踪接口。
type Tracer = mqcore.Tracer

// NoopTracer 空实现。
type NoopTracer = mqcore.NoopTracer

// OTelTracer 基于 OpenTelemetry 的实现，写入 traceparent/tracestate 属性。
type OTelTracer = mqcore.OTelTracer

// OTelTracerOption OTelTracer 选项。
type OTelTracerOption = mqcore.OTelTracerOption

// NewOTelTracer 创建 OTelTracer。
var NewOTelTracer = mqcore.NewOTelTracer

// WithOTelPropagator 设置自定义 Propagator。
var WithOTelPropagator = mqcore.WithOTelPropagator

// Permission 队列权限。
type Permission int

// 队列权限取值。
const (
	PermNone Permission = iota
	PermRead
	PermWrite
	PermReadWrite
)

// Writable 是否可写。
func (p Permission) Writable() bool { return p == PermWrite || p == PermReadWrite }

// Readable 是否可读。
func (p Permission) Readable() bool { return p == PermRead || p == PermReadWrite }

func (p Permission) String() string {
	switch p {
	case PermNone:
		return "NONE"
	case PermRead:
		return "READ"
	case PermWrite:
		return "WRITE"
	case PermReadWrite:
		return "READ_WRITE"
	default:
		return "Permission(" + strconv.Itoa(int(p)) + ")"
	}
}

// MasterBrokerID 主节点 ID。
const MasterBrokerID = 0

// Broker 服务端节点。Endpoints 为规范化地址串 host1:port1;host2:port2。
type Broker struct {
	Name      string
	ID        int32
	Endpoints string
}

// Addresses 拆分 Endpoints。
func (b Broker) Addresses() []string {
	if b.Endpoints == "" {
		return nil
	}
	return strings.Split(b.Endpoints, ";")
}

// Master 是否为主节点。
func (b Broker) Master() bool { return b.ID == MasterBrokerID }

// MessageQueue 一个 topic 分区。值类型，可直接用 == 比较。
type MessageQueue struct {
	Topic      string
	ID         int32
	Broker     Broker
	Permission Permission
}

// Key 队列标识 topic@broker@id。
func (q MessageQueue) Key() string {
	return q.Topic + "@" + q.Broker.Name + "@" + strconv.Itoa(int(q.ID))
}

func (q MessageQueue) String() string { return q.Key() }

// TopicRouteData topic 路由快照。创建后不再修改，缓存替换时整体替换。
type TopicRouteData struct {
	Topic     string
	Queues    []MessageQueue
	FetchedAt time.Time
}

// Writable 返回主节点上可写的队列，保持原顺序。
func (r *TopicRouteData) Writable() []MessageQueue {
	if r == nil {
		return nil
	}
	out := make([]MessageQueue, 0, len(r.Queues))
	for _, q := range r.Queues {
		if q.Permission.Writable() && q.Broker.Master() {
			out = append(out, q)
		}
	}
	return out
}

// Clone 返回独立副本，修改副本不影响缓存中的快照。
func (r *TopicRouteData) Clone() *TopicRouteData {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Queues = slices.Clone(r.Queues)
	return &cp
}

// Age 距拉取时刻的时长。
func (r *TopicRouteData) Age(now time.Time) time.Duration {
	return now.Sub(r.FetchedAt)
}

// SendReceipt 发送回执，字段来自服务端原样透传。
type SendReceipt struct {
	MessageID     string
	Queue         MessageQueue
	Offset        int64
	TransactionID string
}

// RouteState topic 的路由状态。
type RouteState int

// 路由状态取值。
const (
	// RouteUnregistered 从未引用过。
	RouteUnregistered RouteState = iota
	// RoutePending 首次拉取进行中。
	RoutePending
	// RouteFresh 有数据且未超过 RouteTTL。
	RouteFresh
	// RouteStale 有数据但已超过 RouteTTL，仍可使用。
	RouteStale
	// RouteUnroutable 无缓存且最近一次拉取确认 topic 不存在或无队列。
	RouteUnroutable
)

func (s RouteState) String() string {
	switch s {
	case RouteUnregistered:
		return "Unregistered"
	case RoutePending:
		return "Pending"
	case RouteFresh:
		return "Fresh"
	case RouteStale:
		return "Stale"
	case RouteUnroutable:
		return "Unroutable"
	default:
		return "RouteState(" + strconv.Itoa(int(s)) + ")"
	}
}

// ProducerStats 生产者统计。
type ProducerStats struct {
	// Sent 成功发送的消息数。
	Sent int64
	// Failed 最终失败的 Send 调用数。
	Failed int64
	// Attempts 发出的 SendMessage RPC 总数。
	Attempts int64
	// Retries 因瞬时失败触发的重试数。
	Retries int64
	// RouteFetches 路由拉取次数（含失败）。
	RouteFetches int64
}
