package xrocketmq

import (
	"fmt"
	"strings"
	"time"

	"github.com/omeyang/xrocketmq/pkg/business/xauth"
	"github.com/omeyang/xrocketmq/pkg/config/xconf"
)

// 默认值。
const (
	DefaultRequestTimeout       = 3 * time.Second
	DefaultMaxAttempts          = 3
	DefaultRouteRefreshInterval = 30 * time.Second
	DefaultHeartbeatInterval    = 10 * time.Second
	DefaultIdleConnTimeout      = 30 * time.Minute
	DefaultIsolationThreshold   = 3
	DefaultIsolationTimeout     = 30 * time.Second
)

// CredentialsConfig 文件配置中的静态凭证。
type CredentialsConfig struct {
	AccessKey     string `koanf:"access_key"`
	AccessSecret  string `koanf:"access_secret"`
	SecurityToken string `koanf:"security_token"`
}

// Config 客户端配置。构造时复制，之后只读。
type Config struct {
	// Endpoints 接入点列表 host:port，路由查询失败时按顺序轮换。
	Endpoints []string `koanf:"endpoints"`
	// Namespace 可选命名空间。
	Namespace string `koanf:"namespace"`
	// SSLEnabled 是否启用 TLS。
	SSLEnabled bool `koanf:"ssl_enabled"`
	// RequestTimeout 单次 RPC 超时，默认 3s。
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// MaxAttempts 单次 Send 的最大尝试次数，默认 3。
	MaxAttempts int `koanf:"max_attempts"`
	// MaxBodySize 消息体上限，默认 4 MiB。
	MaxBodySize int `koanf:"max_body_size"`
	// Topics 启动时预取路由的 topic。
	Topics []string `koanf:"topics"`

	// RouteRefreshInterval 路由刷新周期，默认 30s。
	RouteRefreshInterval time.Duration `koanf:"route_refresh_interval"`
	// RouteTTL 超过该时长的路由视为 Stale，默认 2 倍刷新周期。
	RouteTTL time.Duration `koanf:"route_ttl"`
	// HeartbeatInterval 心跳周期，默认 10s。
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`
	// IdleConnTimeout 连接空闲超过该时长后关闭，默认 30min。
	IdleConnTimeout time.Duration `koanf:"idle_conn_timeout"`

	// IsolationThreshold 端点连续瞬时失败多少次后被隔离，默认 3。
	IsolationThreshold uint32 `koanf:"isolation_threshold"`
	// IsolationTimeout 隔离后多久进入半开探测，默认 30s。
	IsolationTimeout time.Duration `koanf:"isolation_timeout"`

	// Credentials 未设置 CredentialsProvider 时，用于构造 StaticProvider。
	Credentials CredentialsConfig `koanf:"credentials"`
	// CredentialsProvider 凭证供给，优先于 Credentials。
	CredentialsProvider xauth.Provider `koanf:"-"`
}

// withDefaults 返回填充默认值后的副本。
func (c Config) withDefaults() Config {
	c.Endpoints = append([]string(nil), c.Endpoints...)
	c.Topics = append([]string(nil), c.Topics...)
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	if c.RouteRefreshInterval <= 0 {
		c.RouteRefreshInterval = DefaultRouteRefreshInterval
	}
	if c.RouteTTL <= 0 {
		c.RouteTTL = 2 * c.RouteRefreshInterval
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = DefaultIdleConnTimeout
	}
	if c.IsolationThreshold == 0 {
		c.IsolationThreshold = DefaultIsolationThreshold
	}
	if c.IsolationTimeout <= 0 {
		c.IsolationTimeout = DefaultIsolationTimeout
	}
	return c
}

// validate 校验必填项，并在需要时从 Credentials 构造 StaticProvider。
func (c *Config) validate() error {
	if len(c.Endpoints) == 0 {
		return ErrNoAccessPoint
	}
	for _, ep := range c.Endpoints {
		if strings.TrimSpace(ep) == "" || strings.Contains(ep, ";") {
			return fmt.Errorf("%w: bad endpoint %q", ErrInvalidConfig, ep)
		}
	}
	if c.CredentialsProvider == nil {
		p, err := xauth.NewStaticProvider(c.Credentials.AccessKey, c.Credentials.AccessSecret, c.Credentials.SecurityToken)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		c.CredentialsProvider = p
	}
	return nil
}

// LoadConfig 从 YAML/JSON 文件读取配置，section 为空时读取根节点。
//
//	endpoints: ["10.0.0.1:8081"]
//	request_timeout: 3s
//	credentials:
//	  access_key: AK
//	  access_secret: SK
func LoadConfig(path, section string) (*Config, error) {
	cfg, err := xconf.New(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := cfg.Unmarshal(section, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
