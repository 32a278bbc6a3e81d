package xlog

import (
	"log/slog"
	"time"
)

// 标准字段名。
const (
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyComponent = "component"
	KeyClientID  = "client_id"
	KeyTopic     = "topic"
	KeyEndpoint  = "endpoint"
	KeyAttempt   = "attempt"
	KeyMethod    = "method"
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
)

// Err 错误属性，nil 返回空属性（slog 会忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 耗时属性。
func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

// Component 组件名属性。
func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }

// ClientID 客户端标识属性。
func ClientID(id string) slog.Attr { return slog.String(KeyClientID, id) }

// Topic 主题属性。
func Topic(topic string) slog.Attr { return slog.String(KeyTopic, topic) }

// Endpoint 端点属性。
func Endpoint(endpoint string) slog.Attr { return slog.String(KeyEndpoint, endpoint) }

// Attempt 尝试次数属性（从 1 开始）。
func Attempt(n int) slog.Attr { return slog.Int(KeyAttempt, n) }

// Method RPC 方法属性。
func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }
