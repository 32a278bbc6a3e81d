// Package xauth 提供 RocketMQ 客户端的凭证供给与请求签名。
//
// # 凭证供给
//
// Provider 只返回本地缓存的 SessionCredentials，从不在调用路径上做网络 I/O：
//   - StaticProvider：固定凭证，永不过期
//   - RefreshableProvider：构造时同步加载一次，之后后台在过期前续期，失败按指数退避重试
//   - FileProvider：从 YAML/JSON 文件读取，文件变更时原子替换
//
// RedisLoader 提供一个从 Redis Hash 读取凭证的 Loader，
// 配合 RefreshableProvider 使用（Hash 由外部 STS 任务维护）。
//
// # 请求签名
//
// Signer 每次调用都从 Provider 取最新凭证，生成一组请求元数据：
//
//	authorization: MQv2-HMAC-SHA1 Credential=<ak>, SignedHeaders=x-mq-date-time, Signature=<HEX>
//
// 签名内容为 x-mq-date-time 的值，密钥为 access secret。
// 重试时必须重新签名，避免使用已过期的凭证与时间戳。
//
// # 生命周期
//
// RefreshableProvider 与 FileProvider 持有后台 goroutine，使用完毕必须 Close；
// Close 幂等，之后仍返回最后一次成功加载且未过期的凭证。
package xauth
