// Package xretry 提供重试策略、退避策略及其执行器。
//
// 底层使用 [avast/retry-go/v5] 驱动重试循环，本包只负责把"是否重试"
// 与"等多久"两个决策抽象为接口：
//   - RetryPolicy：最大尝试次数与逐次重试判断
//   - BackoffPolicy：两次尝试之间的等待时间
//
// 在 xrocketmq 中的用途：
//   - 发送流水线按 maxAttempts 逐队列重试（每次尝试由调用方重新选择队列）
//   - 路由查询在多个接入点之间轮换
//   - 可刷新凭证在加载失败后按指数退避重试
//
// 错误分类：实现 RetryableError 的错误按 Retryable() 判断，
// 其他错误默认视为可重试；NewPermanentError 可显式标记为不可重试。
//
// [avast/retry-go/v5]: https://github.com/avast/retry-go
package xretry
