package xauth

// Provider 凭证供给接口。
//
// 实现必须并发安全，且只返回本地已持有的凭证：
// 调用方在每次 RPC 尝试前都会调用，不能阻塞在网络 I/O 上。
type Provider interface {
	SessionCredentials() (*SessionCredentials, error)
}

// StaticProvider 固定凭证。
type StaticProvider struct {
	creds *SessionCredentials
}

// NewStaticProvider 创建固定凭证 Provider，securityToken 可为空。
func NewStaticProvider(accessKey, accessSecret, securityToken string) (*StaticProvider, error) {
	c := &SessionCredentials{
		AccessKey:     accessKey,
		AccessSecret:  accessSecret,
		SecurityToken: securityToken,
		ExpiresAt:     NeverExpire,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &StaticProvider{creds: c}, nil
}

// SessionCredentials 返回构造时的凭证。
func (p *StaticProvider) SessionCredentials() (*SessionCredentials, error) {
	return p.creds, nil
}

var _ Provider = (*StaticProvider)(nil)
