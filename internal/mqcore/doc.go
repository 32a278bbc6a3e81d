// Package mqcore 提供 xrocketmq 客户端的共享内核。
//
// 本包是 internal 包，仅供 xrocketmq 与 remoting 内部使用，外部用户不应直接导入。
//
// 主要功能：
//   - 共享错误定义（ErrClosed 等，以 "mq:" 为前缀重导出给终端用户）
//   - Tracer 接口：把链路上下文写入消息属性，随消息一起投递到 Broker
//   - OTelTracer：基于 OpenTelemetry propagation 的 Tracer 实现
//   - Lifetime：客户端生命周期与单次调用 ctx 的合并，关闭时以 ErrClosed 作为取消原因
package mqcore
