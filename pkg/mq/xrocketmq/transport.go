package xrocketmq

import (
	"context"
	"math"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/omeyang/xrocketmq/internal/remoting"
)

//go:generate mockgen -source=transport.go -destination=mock_transport_test.go -package=xrocketmq

// transport 生产者依赖的四个 RPC。
//
// 实现必须把服务端状态码与传输层错误分类为本包的错误。
type transport interface {
	QueryRoute(ctx context.Context, addrs []string, topic string) (*TopicRouteData, error)
	SendMessage(ctx context.Context, mq MessageQueue, msg *remoting.Message) (*SendReceipt, error)
	Heartbeat(ctx context.Context, addrs []string) error
	NotifyClientTermination(ctx context.Context, addrs []string) error
	Close() error
}

// idleSweeper 可选能力：关闭空闲连接。
type idleSweeper interface {
	SweepIdle(idle time.Duration) int
}

// remotingTransport 基于 remoting.Client 的实现。
type remotingTransport struct {
	client         *remoting.Client
	namespace      string
	requestTimeout time.Duration
	now            func() time.Time
}

func newRemotingTransport(client *remoting.Client, namespace string, requestTimeout time.Duration) *remotingTransport {
	return &remotingTransport{
		client:         client,
		namespace:      namespace,
		requestTimeout: requestTimeout,
		now:            time.Now,
	}
}

func (t *remotingTransport) invoke(ctx context.Context, addrs []string, method string, req, reply any) error {
	ctx, cancel := context.WithTimeout(ctx, t.requestTimeout)
	defer cancel()
	return t.client.Invoke(ctx, addrs, method, req, reply)
}

func (t *remotingTransport) QueryRoute(ctx context.Context, addrs []string, topic string) (*TopicRouteData, error) {
	const op = "query_route"
	endpoint := remoting.Key(addrs)
	req := &remoting.QueryRouteRequest{
		Topic:     remoting.Resource{Namespace: t.namespace, Name: topic},
		Endpoints: toWireEndpoints(addrs),
	}
	var resp remoting.QueryRouteResponse
	if err := t.invoke(ctx, addrs, remoting.MethodQueryRoute, req, &resp); err != nil {
		return nil, classifyTransport(op, endpoint, err)
	}
	if err := classifyStatus(op, endpoint, resp.Status); err != nil {
		return nil, err
	}
	if len(resp.MessageQueues) == 0 {
		return nil, &RPCError{Op: op, Endpoint: endpoint, Kind: ErrRouteNotFound, Message: "topic " + topic + " has no queues"}
	}
	route := &TopicRouteData{
		Topic:     topic,
		Queues:    make([]MessageQueue, 0, len(resp.MessageQueues)),
		FetchedAt: t.now(),
	}
	for i := range resp.MessageQueues {
		q, err := fromWireQueue(op, endpoint, topic, &resp.MessageQueues[i])
		if err != nil {
			return nil, err
		}
		route.Queues = append(route.Queues, q)
	}
	return route, nil
}

func (t *remotingTransport) SendMessage(ctx context.Context, mq MessageQueue, msg *remoting.Message) (*SendReceipt, error) {
	const op = "send_message"
	addrs := mq.Broker.Addresses()
	req := &remoting.SendMessageRequest{Messages: []remoting.Message{*msg}}
	var resp remoting.SendMessageResponse
	if err := t.invoke(ctx, addrs, remoting.MethodSendMessage, req, &resp); err != nil {
		return nil, classifyTransport(op, mq.Broker.Endpoints, err)
	}
	if err := classifyStatus(op, mq.Broker.Endpoints, resp.Status); err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, malformed(op, mq.Broker.Endpoints, "empty send result")
	}
	entry := resp.Entries[0]
	if err := classifyStatus(op, mq.Broker.Endpoints, entry.Status); err != nil {
		return nil, err
	}
	return &SendReceipt{
		MessageID:     entry.MessageID,
		Queue:         mq,
		Offset:        entry.Offset,
		TransactionID: entry.TransactionID,
	}, nil
}

func (t *remotingTransport) Heartbeat(ctx context.Context, addrs []string) error {
	const op = "heartbeat"
	var resp remoting.HeartbeatResponse
	req := &remoting.HeartbeatRequest{ClientType: remoting.ClientTypeProducer}
	if err := t.invoke(ctx, addrs, remoting.MethodHeartbeat, req, &resp); err != nil {
		return classifyTransport(op, remoting.Key(addrs), err)
	}
	return classifyStatus(op, remoting.Key(addrs), resp.Status)
}

func (t *remotingTransport) NotifyClientTermination(ctx context.Context, addrs []string) error {
	const op = "notify_client_termination"
	var resp remoting.NotifyClientTerminationResponse
	if err := t.invoke(ctx, addrs, remoting.MethodNotifyClientTermination, &remoting.NotifyClientTerminationRequest{}, &resp); err != nil {
		return classifyTransport(op, remoting.Key(addrs), err)
	}
	return classifyStatus(op, remoting.Key(addrs), resp.Status)
}

func (t *remotingTransport) SweepIdle(idle time.Duration) int {
	return t.client.SweepIdle(idle)
}

func (t *remotingTransport) Close() error {
	return t.client.Close()
}

func fromWireQueue(op, endpoint, topic string, q *remoting.MessageQueue) (MessageQueue, error) {
	if q.Topic.Name != topic {
		return MessageQueue{}, malformed(op, endpoint, "route for %q contains queue of topic %q", topic, q.Topic.Name)
	}
	if q.Broker == nil || q.Broker.Endpoints == nil || len(q.Broker.Endpoints.Addresses) == 0 {
		return MessageQueue{}, malformed(op, endpoint, "queue %d of %q has no broker endpoints", q.ID, topic)
	}
	addrs := make([]string, 0, len(q.Broker.Endpoints.Addresses))
	for _, a := range q.Broker.Endpoints.Addresses {
		if a.Host == "" || strings.Contains(a.Host, ";") || a.Port <= 0 || a.Port > math.MaxUint16 {
			return MessageQueue{}, malformed(op, endpoint, "queue %d of %q has bad address %q:%d", q.ID, topic, a.Host, a.Port)
		}
		addrs = append(addrs, net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port))))
	}
	return MessageQueue{
		Topic:      topic,
		ID:         q.ID,
		Permission: fromWirePermission(q.Permission),
		Broker: Broker{
			Name:      q.Broker.Name,
			ID:        q.Broker.ID,
			Endpoints: strings.Join(addrs, ";"),
		},
	}, nil
}

func fromWirePermission(p remoting.Permission) Permission {
	switch p {
	case remoting.PermissionRead:
		return PermRead
	case remoting.PermissionWrite:
		return PermWrite
	case remoting.PermissionReadWrite:
		return PermReadWrite
	default:
		return PermNone
	}
}

// toWireEndpoints 解析 host:port，无法解析或端口越界的地址跳过。
func toWireEndpoints(addrs []string) *remoting.Endpoints {
	ep := &remoting.Endpoints{Scheme: "IPv4"}
	for _, a := range addrs {
		host, port, err := net.SplitHostPort(a)
		if err != nil || host == "" {
			continue
		}
		p, err := strconv.ParseUint(port, 10, 16)
		if err != nil || p == 0 {
			continue
		}
		if net.ParseIP(host) == nil {
			ep.Scheme = "DOMAIN_NAME"
		}
		ep.Addresses = append(ep.Addresses, remoting.Address{Host: host, Port: int32(p)})
	}
	return ep
}

// toWireMessage 组装线上消息。props 为已复制并写入追踪信息的属性。
func toWireMessage(m *Message, namespace, messageID string, props map[string]string, born time.Time) *remoting.Message {
	w := &remoting.Message{
		Topic:          remoting.Resource{Namespace: namespace, Name: m.Topic},
		UserProperties: props,
		Body:           m.Body,
		SystemProperties: remoting.SystemProperties{
			Tag:           m.Tag,
			Keys:          m.Keys,
			MessageID:     messageID,
			MessageType:   m.messageType(),
			BornTimestamp: born,
			BornHost:      bornHost(),
			MessageGroup:  m.MessageGroup,
		},
	}
	if !m.DeliveryTimestamp.IsZero() {
		ts := m.DeliveryTimestamp
		w.SystemProperties.DeliveryTimestamp = &ts
	}
	return w
}

func bornHost() string {
	h, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return h
}
