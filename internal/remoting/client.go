package remoting

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/resolver"
	"google.golang.org/grpc/resolver/manual"

	"github.com/omeyang/xrocketmq/internal/mqcore"
	"github.com/omeyang/xrocketmq/pkg/observability/xlog"
)

const (
	// DefaultMaxConns 默认最多缓存的连接数。
	DefaultMaxConns = 256

	resolverScheme = "xrmq"
)

// ErrNoAddress 端点集合为空。
var ErrNoAddress = errors.New("remoting: no address")

// Option Client 配置选项。
type Option func(*Client)

// WithSigner 设置请求签名。未设置时不附加认证元数据。
func WithSigner(s RequestSigner) Option {
	return func(c *Client) { c.signer = s }
}

// WithLogger 设置日志。
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMessageLogLevel 设置消息日志级别，默认 Debug。
func WithMessageLogLevel(level slog.Level) Option {
	return func(c *Client) { c.msgLevel = level }
}

// WithTLS 启用 TLS。cfg 为 nil 时使用 TLS 1.2 起的默认配置。
func WithTLS(cfg *tls.Config) Option {
	return func(c *Client) {
		if cfg == nil {
			cfg = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		c.tlsConfig = cfg
	}
}

// WithMaxConns 设置连接缓存上限，超出时淘汰最久未用的连接。
func WithMaxConns(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxConns = n
		}
	}
}

// WithDialOptions 追加 grpc.DialOption，测试中用于注入 bufconn 拨号器。
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) { c.dialOpts = append(c.dialOpts, opts...) }
}

// conn 带引用计数的连接。被淘汰时若仍有调用在途，推迟到最后一个调用结束再关闭，
// 避免在途请求以 codes.Canceled 失败。
type conn struct {
	key      string
	cc       *grpc.ClientConn
	logger   *slog.Logger
	lastUsed atomic.Int64

	mu      sync.Mutex
	refs    int
	retired bool
}

func (c *conn) touch(now time.Time) { c.lastUsed.Store(now.UnixNano()) }

func (c *conn) acquire() {
	c.mu.Lock()
	c.refs++
	c.mu.Unlock()
}

func (c *conn) release() {
	c.mu.Lock()
	c.refs--
	closeNow := c.retired && c.refs == 0
	c.mu.Unlock()
	if closeNow {
		c.close()
	}
}

// retire 标记淘汰，无在途调用时立即关闭。
func (c *conn) retire() {
	c.mu.Lock()
	c.retired = true
	closeNow := c.refs == 0
	c.mu.Unlock()
	if closeNow {
		c.close()
	}
}

func (c *conn) close() {
	if err := c.cc.Close(); err != nil {
		c.logger.Debug("remoting: close connection", xlog.Endpoint(c.key), xlog.Err(err))
	}
}

// Client 按端点集合复用 gRPC 连接。
//
// 同一组地址（按原样拼接为 Key）共享一个 *grpc.ClientConn，
// 组内地址由 pick_first 负载均衡在失败时切换。
type Client struct {
	signer    RequestSigner
	logger    *slog.Logger
	msgLevel  slog.Level
	tlsConfig *tls.Config
	maxConns  int
	dialOpts  []grpc.DialOption

	mu     sync.Mutex
	conns  *lru.Cache[string, *conn]
	closed bool
}

// NewClient 创建 Client。
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		logger:   slog.Default(),
		msgLevel: slog.LevelDebug,
		maxConns: DefaultMaxConns,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	conns, err := lru.NewWithEvict(c.maxConns, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("remoting: create connection cache: %w", err)
	}
	c.conns = conns
	return c, nil
}

// Key 端点集合的规范字符串 host1:port1;host2:port2。
func Key(addrs []string) string {
	return strings.Join(addrs, ";")
}

// Invoke 对 addrs 指向的端点发起一元调用。
func (c *Client) Invoke(ctx context.Context, addrs []string, method string, req, reply any) error {
	cn, err := c.get(addrs)
	if err != nil {
		return err
	}
	defer cn.release()
	return cn.cc.Invoke(ctx, method, req, reply)
}

// NewStream 对 addrs 指向的端点建立流。
func (c *Client) NewStream(ctx context.Context, addrs []string, desc *grpc.StreamDesc, method string) (grpc.ClientStream, error) {
	cn, err := c.get(addrs)
	if err != nil {
		return nil, err
	}
	cs, err := cn.cc.NewStream(ctx, desc, method)
	if err != nil {
		cn.release()
		return nil, err
	}
	// 流结束或被取消时其 Context 随之结束。
	context.AfterFunc(cs.Context(), cn.release)
	return cs, nil
}

// SweepIdle 淘汰超过 idle 未使用的连接，返回淘汰数量。在途调用结束后连接才真正关闭。
func (c *Client) SweepIdle(idle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0
	}
	deadline := time.Now().Add(-idle).UnixNano()
	n := 0
	for _, key := range c.conns.Keys() {
		cn, ok := c.conns.Peek(key)
		if ok && cn.lastUsed.Load() <= deadline {
			c.conns.Remove(key)
			n++
		}
	}
	return n
}

// Len 当前缓存的连接数。
func (c *Client) Len() int {
	return c.conns.Len()
}

// Close 关闭全部连接。可重复调用。
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.conns.Purge()
	return nil
}

func (c *Client) get(addrs []string) (*conn, error) {
	if len(addrs) == 0 {
		return nil, ErrNoAddress
	}
	key := Key(addrs)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, mqcore.ErrClosed
	}
	if cn, ok := c.conns.Get(key); ok {
		cn.touch(time.Now())
		cn.acquire()
		return cn, nil
	}
	cc, err := c.dial(addrs)
	if err != nil {
		return nil, err
	}
	cn := &conn{key: key, cc: cc, logger: c.logger}
	cn.touch(time.Now())
	cn.acquire()
	c.conns.Add(key, cn)
	return cn, nil
}

// dial 不建立连接，首次调用时才真正拨号。
func (c *Client) dial(addrs []string) (*grpc.ClientConn, error) {
	r := manual.NewBuilderWithScheme(resolverScheme)
	state := resolver.State{Addresses: make([]resolver.Address, 0, len(addrs))}
	for _, a := range addrs {
		state.Addresses = append(state.Addresses, resolver.Address{Addr: a})
	}
	r.InitialState(state)

	creds := insecure.NewCredentials()
	if c.tlsConfig != nil {
		creds = credentials.NewTLS(c.tlsConfig)
	}

	unary := []grpc.UnaryClientInterceptor{}
	stream := []grpc.StreamClientInterceptor{}
	if c.signer != nil {
		unary = append(unary, UnaryAuthInterceptor(c.signer))
		stream = append(stream, StreamAuthInterceptor(c.signer))
	}
	unary = append(unary, UnaryLoggingInterceptor(c.logger, c.msgLevel))
	stream = append(stream, StreamLoggingInterceptor(c.logger, c.msgLevel))

	opts := []grpc.DialOption{
		grpc.WithResolvers(r),
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
		grpc.WithChainUnaryInterceptor(unary...),
		grpc.WithChainStreamInterceptor(stream...),
	}
	opts = append(opts, c.dialOpts...)

	cc, err := grpc.NewClient(resolverScheme+":///"+Key(addrs), opts...)
	if err != nil {
		return nil, fmt.Errorf("remoting: create connection to %s: %w", Key(addrs), err)
	}
	return cc, nil
}

func (c *Client) onEvict(_ string, cn *conn) {
	cn.retire()
}
