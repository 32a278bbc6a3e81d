package xlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation 文件轮转参数。
type Rotation struct {
	// MaxSizeMB 单个文件大小上限，默认 100。
	MaxSizeMB int
	// MaxBackups 保留的历史文件数，默认 10。
	MaxBackups int
	// MaxAgeDays 历史文件保留天数，默认 30。
	MaxAgeDays int
	// Compress 是否 gzip 压缩历史文件。
	Compress bool
}

// Builder 日志构建器。出错的设置会被记录，在 Build 时统一返回。
type Builder struct {
	output    io.Writer
	level     *slog.LevelVar
	format    string
	addSource bool
	enrich    bool
	rotator   *lumberjack.Logger
	attrs     []slog.Attr
	err       error
}

// New 创建构建器：stderr、info、text、启用 enrich。
func New() *Builder {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	return &Builder{
		output: os.Stderr,
		level:  level,
		format: "text",
		enrich: true,
	}
}

// SetOutput 设置输出。
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w != nil {
		b.output = w
	}
	return b
}

// SetLevel 设置级别。
func (b *Builder) SetLevel(level slog.Level) *Builder {
	b.level.Set(level)
	return b
}

// SetLevelString 解析 debug/info/warn/error（大小写不敏感，允许 "info+2" 形式）。
func (b *Builder) SetLevelString(s string) *Builder {
	if strings.TrimSpace(s) == "" {
		return b
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("xlog: invalid level %q: %w", s, err))
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置 text 或 json，空值保持 text。
func (b *Builder) SetFormat(format string) *Builder {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "":
	case "text", "json":
		b.format = f
	default:
		b.err = errors.Join(b.err, fmt.Errorf("xlog: unknown format %q", format))
	}
	return b
}

// SetAddSource 是否输出源码位置。
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetEnrich 是否从 ctx 注入 trace_id/span_id。
func (b *Builder) SetEnrich(enable bool) *Builder {
	b.enrich = enable
	return b
}

// SetAttrs 追加固定属性，例如 client_id。
func (b *Builder) SetAttrs(attrs ...slog.Attr) *Builder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// SetRotation 输出到按大小轮转的文件。
func (b *Builder) SetRotation(filename string, r Rotation) *Builder {
	if filename == "" {
		b.err = errors.Join(b.err, errors.New("xlog: empty rotation filename"))
		return b
	}
	b.rotator = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    orDefault(r.MaxSizeMB, 100),
		MaxBackups: orDefault(r.MaxBackups, 10),
		MaxAge:     orDefault(r.MaxAgeDays, 30),
		Compress:   r.Compress,
	}
	b.output = b.rotator
	return b
}

// Build 返回 logger、级别控制器和清理函数（关闭轮转文件，可重复调用）。
func (b *Builder) Build() (*slog.Logger, *slog.LevelVar, func() error, error) {
	if b.err != nil {
		return nil, nil, nil, b.err
	}

	opts := &slog.HandlerOptions{Level: b.level, AddSource: b.addSource}
	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(b.output, opts)
	} else {
		handler = slog.NewTextHandler(b.output, opts)
	}
	if b.enrich {
		handler = NewEnrichHandler(handler)
	}
	if len(b.attrs) > 0 {
		handler = handler.WithAttrs(b.attrs)
	}

	var once sync.Once
	rotator := b.rotator
	cleanup := func() error {
		var err error
		once.Do(func() {
			if rotator != nil {
				err = rotator.Close()
			}
		})
		return err
	}
	return slog.New(handler), b.level, cleanup, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
