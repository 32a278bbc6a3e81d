package xrocketmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testTopic = "orders"

func testQueue(topic string, id int32, broker string) MessageQueue {
	return MessageQueue{
		Topic:      topic,
		ID:         id,
		Permission: PermReadWrite,
		Broker:     Broker{Name: broker, ID: MasterBrokerID, Endpoints: broker + ":8081"},
	}
}

func testRoute(topic string, queues ...MessageQueue) *TopicRouteData {
	return &TopicRouteData{Topic: topic, Queues: queues}
}

func testConfig() Config {
	return Config{
		Endpoints:   []string{"10.0.0.1:8081"},
		Credentials: CredentialsConfig{AccessKey: "ak", AccessSecret: "sk"},
	}
}

// newMockProducer 创建使用 mock 传输层的生产者，测试结束时自动关闭。
func newMockProducer(t *testing.T, tr *Mocktransport, cfg Config, opts ...ProducerOption) *Producer {
	t.Helper()
	tr.EXPECT().NotifyClientTermination(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	tr.EXPECT().Close().Return(nil).AnyTimes()
	p, err := NewProducer(context.Background(), cfg, append(opts, withTransport(tr))...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func transientErr(endpoint string) error {
	return &RPCError{Op: "send_message", Endpoint: endpoint, Kind: ErrTransientRPC}
}

func receiptFor(mq MessageQueue, offset int64) *SendReceipt {
	return &SendReceipt{MessageID: "01ABC", Queue: mq, Offset: offset}
}
