package xauth

import "errors"

var (
	// ErrInvalidCredentials 凭证缺少 access key 或 access secret。
	ErrInvalidCredentials = errors.New("xauth: invalid credentials")

	// ErrCredentialsUnavailable 当前没有可用凭证：从未加载成功，或缓存已过期。
	ErrCredentialsUnavailable = errors.New("xauth: credentials unavailable")

	// ErrNilLoader Loader 为 nil。
	ErrNilLoader = errors.New("xauth: nil loader")

	// ErrNilProvider Provider 为 nil。
	ErrNilProvider = errors.New("xauth: nil provider")

	// ErrNilRedisClient Redis 客户端为 nil。
	ErrNilRedisClient = errors.New("xauth: nil redis client")

	// ErrCredentialsNotFound 凭证源中不存在对应记录。
	ErrCredentialsNotFound = errors.New("xauth: credentials not found")

	// ErrInvalidExpiry 过期时间无法解析。
	ErrInvalidExpiry = errors.New("xauth: invalid expires_at")
)
