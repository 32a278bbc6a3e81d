// Package xmetrics 提供统一的观测抽象：一次操作对应一个 Span，
// 结束时同时产出链路 span 与指标。
//
// 默认 NoopObserver 不做任何事；NewOTelObserver 基于 OpenTelemetry 产出：
//   - rocketmq.client.operation.total     计数，维度 component/operation/status
//   - rocketmq.client.operation.duration  耗时直方图（秒），维度同上
//
// 指标维度可通过 WithMetricAttrKeys 追加低基数属性（如 topic）。
// 高基数属性（消息 ID、client id）只应出现在 span 上。
package xmetrics
