// Package xbreaker 基于 [sony/gobreaker/v2] 提供端点级熔断。
//
// xrocketmq 为每个 Broker 端点维护一个 Breaker：连续瞬时失败达到阈值后，
// 该端点进入 Open（隔离）状态，队列选择会优先绕开它；Timeout 到期后进入
// HalfOpen，放行少量探测请求，成功即恢复。
//
// 本包使用 gobreaker 的两步模式（Allow + done），调用方先申请放行，
// 拿到结果后再回报成功与否，从而可以把"是否成功"的判定交给 SuccessPolicy，
// 例如 Broker 明确拒绝消息不应计入端点故障。
//
// [sony/gobreaker/v2]: https://github.com/sony/gobreaker
package xbreaker
