package xid

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sony/sonyflake/v2"
)

var (
	// ErrNilGenerator 表示生成器未初始化。
	ErrNilGenerator = errors.New("xid: nil generator")
	// ErrInvalidConfig 表示生成器配置无效（包括 sonyflake 初始化失败）。
	ErrInvalidConfig = errors.New("xid: invalid config")
)

// Option 生成器配置选项。
type Option func(*options)

type options struct {
	machineID func() (uint16, error)
}

// WithMachineID 设置机器 ID 来源，默认 DefaultMachineID。
func WithMachineID(fn func() (uint16, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.machineID = fn
		}
	}
}

// Generator 并发安全的 ID 生成器。
type Generator struct {
	sf *sonyflake.Sonyflake
}

// NewGenerator 创建生成器。
func NewGenerator(opts ...Option) (*Generator, error) {
	o := &options{machineID: DefaultMachineID}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	sf, err := sonyflake.New(sonyflake.Settings{
		MachineID: func() (int, error) {
			id, err := o.machineID()
			return int(id), err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Generator{sf: sf}, nil
}

// New 返回下一个 ID。
func (g *Generator) New() (int64, error) {
	if g == nil || g.sf == nil {
		return 0, ErrNilGenerator
	}
	return g.sf.NextID()
}

// NewString 返回下一个 ID 的 36 进制表示，长度短且只含 [0-9a-z]。
func (g *Generator) NewString() (string, error) {
	id, err := g.New()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 36), nil
}
