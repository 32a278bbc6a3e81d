// Package xlog 构建 xrocketmq 使用的 *slog.Logger。
//
// 库代码只依赖 *slog.Logger，默认 slog.Default()；应用在启动时通过 Builder
// 决定级别、格式与输出位置（标准错误或按大小轮转的文件），再把结果传给
// xrocketmq.WithLogger。
//
// 启用 Enrich 时，日志自动附带 ctx 中 OpenTelemetry span 的 trace_id/span_id，
// 只有 *Context 系列方法（InfoContext 等）会携带 ctx。
package xlog
