package remoting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"google.golang.org/grpc"

	"github.com/omeyang/xrocketmq/pkg/observability/xlog"
)

// messageLogger 一元与流式拦截器共用的消息日志。
//
// 只读消息，渲染失败也只体现在日志里，不影响调用结果。
type messageLogger struct {
	logger *slog.Logger
	level  slog.Level
}

func newMessageLogger(logger *slog.Logger, level slog.Level) messageLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return messageLogger{logger: logger, level: level}
}

func (l messageLogger) outbound(ctx context.Context, method string, msg any) {
	if !l.logger.Enabled(ctx, l.level) {
		return
	}
	l.logger.Log(ctx, l.level, "rpc outbound", xlog.Method(method), slog.String("message", render(msg)))
}

func (l messageLogger) inbound(ctx context.Context, method string, msg any) {
	if !l.logger.Enabled(ctx, l.level) {
		return
	}
	l.logger.Log(ctx, l.level, "rpc inbound", xlog.Method(method), slog.String("message", render(msg)))
}

func (l messageLogger) failure(ctx context.Context, method string, err error, elapsed time.Duration) {
	l.logger.Log(ctx, max(l.level, slog.LevelInfo), "rpc failed",
		xlog.Method(method), xlog.Err(err), xlog.Duration(elapsed))
}

func render(msg any) string {
	b, err := json.Marshal(msg)
	if err != nil {
		return "<unrenderable: " + err.Error() + ">"
	}
	return string(b)
}

// UnaryLoggingInterceptor 记录请求与响应，原样返回调用结果。
func UnaryLoggingInterceptor(logger *slog.Logger, level slog.Level) grpc.UnaryClientInterceptor {
	ml := newMessageLogger(logger, level)
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		start := time.Now()
		ml.outbound(ctx, method, req)
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			ml.failure(ctx, method, err, time.Since(start))
			return err
		}
		ml.inbound(ctx, method, reply)
		return nil
	}
}

// StreamLoggingInterceptor 包装 ClientStream：SendMsg 转发前记录，RecvMsg 交付后记录。
// 不缓存任何消息，取消通过调用方 ctx 传递。
func StreamLoggingInterceptor(logger *slog.Logger, level slog.Level) grpc.StreamClientInterceptor {
	ml := newMessageLogger(logger, level)
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		start := time.Now()
		cs, err := streamer(ctx, desc, cc, method, opts...)
		if err != nil {
			ml.failure(ctx, method, err, time.Since(start))
			return nil, err
		}
		return &loggingClientStream{ClientStream: cs, ml: ml, method: method, start: start}, nil
	}
}

type loggingClientStream struct {
	grpc.ClientStream
	ml     messageLogger
	method string
	start  time.Time
}

func (s *loggingClientStream) SendMsg(m any) error {
	ctx := s.Context()
	s.ml.outbound(ctx, s.method, m)
	err := s.ClientStream.SendMsg(m)
	// SendMsg 返回 io.EOF 表示流已由对端结束，真实状态由 RecvMsg 给出。
	if err != nil && !errors.Is(err, io.EOF) {
		s.ml.failure(ctx, s.method, err, time.Since(s.start))
	}
	return err
}

func (s *loggingClientStream) RecvMsg(m any) error {
	ctx := s.Context()
	err := s.ClientStream.RecvMsg(m)
	switch {
	case err == nil:
		s.ml.inbound(ctx, s.method, m)
	case errors.Is(err, io.EOF):
	default:
		s.ml.failure(ctx, s.method, err, time.Since(s.start))
	}
	return err
}
