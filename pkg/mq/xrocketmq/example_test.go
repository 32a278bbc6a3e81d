package xrocketmq_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/omeyang/xrocketmq/pkg/mq/xrocketmq"
)

func ExampleNewProducer() {
	cfg := xrocketmq.Config{
		Endpoints: []string{"127.0.0.1:8081"},
		Credentials: xrocketmq.CredentialsConfig{
			AccessKey:    "ak",
			AccessSecret: "sk",
		},
	}

	// 未配置预取 topic 时不会访问网络，连接在首次发送时建立
	p, err := xrocketmq.NewProducer(context.Background(), cfg,
		xrocketmq.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("client id parts:", len(strings.Split(p.ClientID(), "@")))
	fmt.Println("shutdown:", p.Shutdown(context.Background()))
	// Output:
	// client id parts: 4
	// shutdown: <nil>
}

func ExampleProducer_Send() {
	cfg := xrocketmq.Config{
		Endpoints:   []string{"127.0.0.1:8081"},
		Namespace:   "prod",
		Topics:      []string{"orders"},
		Credentials: xrocketmq.CredentialsConfig{AccessKey: "ak", AccessSecret: "sk"},
	}
	ctx := context.Background()
	p, err := xrocketmq.NewProducer(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	receipt, err := p.Send(ctx, &xrocketmq.Message{
		Topic:      "orders",
		Body:       []byte(`{"order_id":42}`),
		Tag:        "created",
		Keys:       []string{"order-42"},
		Properties: map[string]string{"source": "checkout"},
	})
	if err != nil {
		// 重试耗尽时可以区分原因
		if errors.Is(err, xrocketmq.ErrMaxAttemptsExceeded) {
			log.Printf("broker busy: %v", err)
		}
		return
	}
	fmt.Println(receipt.MessageID, receipt.Queue)
}
