// Package mq 提供消息队列客户端相关的子包。
//
// 子包列表：
//   - xrocketmq: RocketMQ 5 生产者，路由缓存、重试换队列、端点隔离
//
// 内部包：
//   - internal/mqcore: 客户端存活期、共享错误与消息级追踪
//   - internal/remoting: gRPC 连接池、签名与日志拦截器、线上结构
//
// 设计原则：
//   - 错误可用 errors.Is 分类，瞬时错误实现 Retryable()
//   - 内置追踪上下文传播（W3C Trace Context）
//   - 关闭幂等，关闭后所有调用立即失败
package mq
