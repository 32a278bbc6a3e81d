// Package xconf 基于 koanf 加载 YAML/JSON 配置，并可监听文件变更自动重载。
//
// xrocketmq 用它读取客户端配置文件（接入点、生产者参数、日志）以及
// 文件型凭证；后者借助 Watch 在凭证轮换时无需重启进程。
//
// 结构体字段通过 `koanf` 标签映射，time.Duration 支持 "3s" 形式的字符串。
package xconf
