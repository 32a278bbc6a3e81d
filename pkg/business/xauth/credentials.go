package xauth

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NeverExpire 表示永不过期的凭证。
var NeverExpire = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// SessionCredentials 一组会话凭证。值在创建后不再修改，可在 goroutine 间共享。
type SessionCredentials struct {
	AccessKey     string
	AccessSecret  string
	SecurityToken string
	ExpiresAt     time.Time
}

// Validate 校验必填字段。
func (c *SessionCredentials) Validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("%w: nil", ErrInvalidCredentials)
	case strings.TrimSpace(c.AccessKey) == "":
		return fmt.Errorf("%w: empty access key", ErrInvalidCredentials)
	case c.AccessSecret == "":
		return fmt.Errorf("%w: empty access secret", ErrInvalidCredentials)
	}
	return nil
}

// NeverExpires 是否为永久凭证。零值 ExpiresAt 同样视为永久。
func (c *SessionCredentials) NeverExpires() bool {
	return c.ExpiresAt.IsZero() || !c.ExpiresAt.Before(NeverExpire)
}

// ExpiredAt 在 now 时刻是否已过期。
func (c *SessionCredentials) ExpiredAt(now time.Time) bool {
	if c.NeverExpires() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// String 不输出 secret 与 token。
func (c *SessionCredentials) String() string {
	if c == nil {
		return "<nil>"
	}
	exp := "never"
	if !c.NeverExpires() {
		exp = c.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return "SessionCredentials{ak=" + c.AccessKey + ", expires=" + exp + "}"
}

// normalize 把零值过期时间统一为 NeverExpire，返回副本。
func (c *SessionCredentials) normalize() *SessionCredentials {
	cp := *c
	if cp.ExpiresAt.IsZero() {
		cp.ExpiresAt = NeverExpire
	}
	return &cp
}

// parseExpiry 支持 RFC3339 与 Unix 秒两种格式，空字符串表示永不过期。
func parseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NeverExpire, nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidExpiry, s)
	}
	return t, nil
}
