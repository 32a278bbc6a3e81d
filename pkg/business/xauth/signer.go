package xauth

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // 服务端协议规定 HMAC-SHA1
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 请求元数据键。
const (
	HeaderAuthorization = "authorization"
	HeaderLanguage      = "x-mq-language"
	HeaderProtocol      = "x-mq-protocol"
	HeaderClientVersion = "x-mq-client-version"
	HeaderClientID      = "x-mq-client-id"
	HeaderRequestID     = "x-mq-request-id"
	HeaderDateTime      = "x-mq-date-time"
	HeaderNamespace     = "x-mq-namespace"
	HeaderSessionToken  = "x-mq-session-token"
)

const (
	// Algorithm 签名算法标识。
	Algorithm = "MQv2-HMAC-SHA1"

	// DateTimeLayout x-mq-date-time 的格式，UTC。
	DateTimeLayout = "20060102T150405Z"

	// DefaultClientVersion 默认客户端版本。
	DefaultClientVersion = "0.1.0"

	language = "GOLANG"
	protocol = "v2"
)

// Headers 签名产出的请求元数据。
type Headers map[string]string

// SignerOption Signer 配置选项。
type SignerOption func(*Signer)

// WithNamespace 设置命名空间。
func WithNamespace(ns string) SignerOption {
	return func(s *Signer) { s.namespace = ns }
}

// WithClientVersion 设置客户端版本。
func WithClientVersion(v string) SignerOption {
	return func(s *Signer) {
		if v != "" {
			s.version = v
		}
	}
}

// Signer 为每次请求生成签名元数据。
type Signer struct {
	provider  Provider
	clientID  string
	namespace string
	version   string
	now       func() time.Time
	requestID func() string
}

// NewSigner 创建 Signer。provider 为 nil 时返回 ErrNilProvider。
func NewSigner(provider Provider, clientID string, opts ...SignerOption) (*Signer, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	s := &Signer{
		provider:  provider,
		clientID:  clientID,
		version:   DefaultClientVersion,
		now:       time.Now,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Sign 取当前凭证并生成元数据。每次调用使用新的 request id 与时间戳。
func (s *Signer) Sign() (Headers, error) {
	creds, err := s.provider.SessionCredentials()
	if err != nil {
		return nil, err
	}
	dateTime := s.now().UTC().Format(DateTimeLayout)
	h := Headers{
		HeaderLanguage:      language,
		HeaderProtocol:      protocol,
		HeaderClientVersion: s.version,
		HeaderClientID:      s.clientID,
		HeaderRequestID:     s.requestID(),
		HeaderDateTime:      dateTime,
		HeaderAuthorization: Authorization(creds.AccessKey, Signature(creds.AccessSecret, dateTime)),
	}
	if s.namespace != "" {
		h[HeaderNamespace] = s.namespace
	}
	if creds.SecurityToken != "" {
		h[HeaderSessionToken] = creds.SecurityToken
	}
	return h, nil
}

// Signature 计算 HEX 大写的 HMAC-SHA1(secret, dateTime)。
func Signature(secret, dateTime string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(dateTime))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// Authorization 拼装 authorization 头。
func Authorization(accessKey, signature string) string {
	return Algorithm + " Credential=" + accessKey +
		", SignedHeaders=" + HeaderDateTime +
		", Signature=" + signature
}
