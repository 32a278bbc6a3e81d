// Package xrocketmq 实现 RocketMQ 5 生产者客户端核心。
//
// # 组成
//
//   - 路由缓存：按 topic 缓存 TopicRouteData，首次发送时同步拉取，之后后台定时刷新
//   - 发送流水线：按 topic 轮询选择可写队列，瞬时失败在同一次调用内换队列重试
//   - 端点隔离：连续瞬时失败的端点被熔断，选择队列时优先避开
//   - 心跳与下线通知：定时向已知 broker 发送心跳，关闭时尽力通知
//
// # 用法
//
//	provider, _ := xauth.NewStaticProvider(ak, sk, "")
//	p, err := xrocketmq.NewProducer(ctx, xrocketmq.Config{
//	    Endpoints:           []string{"127.0.0.1:8081"},
//	    CredentialsProvider: provider,
//	})
//	if err != nil {
//	    return err
//	}
//	defer p.Shutdown(context.Background())
//
//	receipt, err := p.Send(ctx, &xrocketmq.Message{Topic: "orders", Body: body})
//
// # 错误
//
// Send 返回的错误都可用 errors.Is 归入以下之一：
// ErrInvalidMessage、ErrRouteNotFound、ErrCredentialsUnavailable、
// ErrMessageRejected、ErrMalformedResponse、ErrMaxAttemptsExceeded、ErrClientClosed。
// ErrMaxAttemptsExceeded 同时包裹最后一次的 ErrTransientRPC 及其底层原因。
// 所有接入点都无法返回路由时，错误为 ErrTransientRPC，不消耗发送尝试次数。
//
// # 重试
//
// 默认最多 3 次尝试，无退避。每次调用只推进一次 topic 游标，
// 重试时跳过本次调用已尝试过的队列（队列数大于 1 时）。
// 带 MessageGroup 的消息以 xxhash(group) 固定起始队列，保证同组消息默认落在同一队列。
//
// # 关闭
//
// Shutdown 幂等。关闭后 Send 立即返回 ErrClientClosed，
// 进行中的 Send 被取消并同样返回 ErrClientClosed。
package xrocketmq
