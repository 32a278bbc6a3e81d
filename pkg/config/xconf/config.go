package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置格式。
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const (
	defaultDelim = "."
	defaultTag   = "koanf"
)

// Option 配置选项。
type Option func(*Config)

// WithTag 设置结构体标签名，默认 "koanf"。
func WithTag(tag string) Option {
	return func(c *Config) {
		if tag != "" {
			c.tag = tag
		}
	}
}

// Config 一份已解析的配置。并发安全，Reload 会整体替换底层 koanf 实例。
type Config struct {
	mu     sync.RWMutex
	k      *koanf.Koanf
	path   string
	format Format
	tag    string
}

// New 从文件加载配置，格式由扩展名（.yaml/.yml/.json）决定。
func New(path string, opts ...Option) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	c := newConfig(format, opts)
	c.path = path
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes 从内存数据加载配置。空数据得到空配置。
func NewFromBytes(data []byte, format Format, opts ...Option) (*Config, error) {
	if format != FormatYAML && format != FormatJSON {
		return nil, ErrUnsupportedFormat
	}
	c := newConfig(format, opts)
	k, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	c.k = k
	return c, nil
}

func newConfig(format Format, opts []Option) *Config {
	c := &Config{format: format, tag: defaultTag, k: koanf.New(defaultDelim)}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Client 返回底层 koanf 实例。Reload 之后应重新获取。
func (c *Config) Client() *koanf.Koanf {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k
}

// Unmarshal 将 path 下的配置（空字符串表示全部）解码到 target。
func (c *Config) Unmarshal(path string, target any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{Tag: c.tag}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// Reload 重新读取文件。解析失败时保留旧配置。
func (c *Config) Reload() error {
	if c.path == "" {
		return ErrNotReloadable
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, err := parse(data, c.format)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.k = k
	c.mu.Unlock()
	return nil
}

// Path 返回文件路径，内存配置返回空字符串。
func (c *Config) Path() string { return c.path }

// Format 返回配置格式。
func (c *Config) Format() Format { return c.format }

func detectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func parse(data []byte, format Format) (*koanf.Koanf, error) {
	k := koanf.New(defaultDelim)
	if len(data) == 0 {
		return k, nil
	}
	var parser koanf.Parser
	if format == FormatJSON {
		parser = json.Parser()
	} else {
		parser = yaml.Parser()
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}
