package mqcore

import "errors"

// 设计决策: 错误前缀使用 "mq:" 而非 "mqcore:"，这些错误会被 xrocketmq 重导出，
// 不应暴露 internal 包名。
var (
	// ErrClosed 表示客户端已关闭。
	ErrClosed = errors.New("mq: client closed")

	// ErrNoAccessPoint 表示没有配置任何接入点。
	ErrNoAccessPoint = errors.New("mq: no access point configured")
)
