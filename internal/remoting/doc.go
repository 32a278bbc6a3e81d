// Package remoting 实现客户端到接入点的 gRPC 通道。
//
// 包含三部分：
//   - JSON 编解码（content-subtype "json"），消息结构见 wire.go
//   - 拦截器：签名（每次尝试重新取凭证）与消息日志（覆盖一元与三种流式形态）
//   - Client：按端点集合缓存 *grpc.ClientConn，LRU 淘汰并定期清理空闲连接
//
// 拦截器链顺序为 签名 → 日志 → 传输。
package remoting
