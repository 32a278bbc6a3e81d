package xauth

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis Hash 字段名。
const (
	RedisFieldAccessKey     = "access_key"
	RedisFieldAccessSecret  = "access_secret"
	RedisFieldSecurityToken = "security_token"
	RedisFieldExpiresAt     = "expires_at"
)

// RedisLoader 返回从 Redis Hash 读取凭证的 Loader。
//
// Hash 由外部 STS 任务写入，字段见 RedisField* 常量；
// expires_at 支持 RFC3339 与 Unix 秒，缺省为永不过期。
// key 不存在返回 ErrCredentialsNotFound。
func RedisLoader(client redis.UniversalClient, key string) Loader {
	return func(ctx context.Context) (*SessionCredentials, error) {
		if client == nil {
			return nil, ErrNilRedisClient
		}
		fields, err := client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("xauth: redis hgetall %s: %w", key, err)
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: redis key %s", ErrCredentialsNotFound, key)
		}
		exp, err := parseExpiry(fields[RedisFieldExpiresAt])
		if err != nil {
			return nil, err
		}
		return &SessionCredentials{
			AccessKey:     fields[RedisFieldAccessKey],
			AccessSecret:  fields[RedisFieldAccessSecret],
			SecurityToken: fields[RedisFieldSecurityToken],
			ExpiresAt:     exp,
		}, nil
	}
}
