package xrocketmq

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/omeyang/xrocketmq/internal/mqcore"
	"github.com/omeyang/xrocketmq/internal/remoting"
	"github.com/omeyang/xrocketmq/pkg/business/xauth"
)

var (
	// ErrRouteNotFound topic 不存在或当前没有可写队列。发送流水线不重试。
	ErrRouteNotFound = errors.New("xrocketmq: route not found")

	// ErrCredentialsUnavailable 凭证不可用，本次尝试失败。
	ErrCredentialsUnavailable = xauth.ErrCredentialsUnavailable

	// ErrTransientRPC 网络错误或服务端瞬时过载，可重试。
	ErrTransientRPC = errors.New("xrocketmq: transient rpc failure")

	// ErrMalformedResponse 响应无法解析，不重试。
	ErrMalformedResponse = errors.New("xrocketmq: malformed response")

	// ErrMaxAttemptsExceeded 尝试次数用尽，包裹最后一次的瞬时错误。
	ErrMaxAttemptsExceeded = errors.New("xrocketmq: max attempts exceeded")

	// ErrInvalidMessage 消息未通过客户端校验。
	ErrInvalidMessage = errors.New("xrocketmq: invalid message")

	// ErrClientClosed 客户端已关闭。
	ErrClientClosed = mqcore.ErrClosed

	// ErrMessageRejected 服务端拒绝（鉴权、参数非法、超限等），不重试。
	ErrMessageRejected = errors.New("xrocketmq: message rejected")

	// ErrInvalidConfig 配置不合法。
	ErrInvalidConfig = errors.New("xrocketmq: invalid config")

	// ErrNoAccessPoint 未配置接入点。
	ErrNoAccessPoint = mqcore.ErrNoAccessPoint
)

// RPCError 一次 RPC 的分类错误。
//
// errors.Is 同时命中 Kind（分类哨兵错误）与 Err（底层原因）。
type RPCError struct {
	Op       string
	Endpoint string
	// Code 服务端业务码，传输层错误时为 0。
	Code    remoting.Code
	Message string
	Kind    error
	Err     error
}

func (e *RPCError) Error() string {
	s := "xrocketmq: " + e.Op
	if e.Endpoint != "" {
		s += " " + e.Endpoint
	}
	if e.Kind != nil {
		s += ": " + e.Kind.Error()
	}
	if e.Code != 0 {
		s += " (code " + strconv.Itoa(int(e.Code)) + ")"
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap 返回分类与原因。
func (e *RPCError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Retryable 实现 xretry.RetryableError。
func (e *RPCError) Retryable() bool {
	return e.Kind == ErrTransientRPC
}

// IsTransient 是否为可重试的瞬时错误。
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientRPC)
}

// classifyStatus 按服务端业务码分类，OK 返回 nil。
func classifyStatus(op, endpoint string, st remoting.Status) error {
	if st.Code == remoting.CodeOK {
		return nil
	}
	return &RPCError{Op: op, Endpoint: endpoint, Code: st.Code, Message: st.Message, Kind: statusKind(st.Code)}
}

func statusKind(code remoting.Code) error {
	switch code {
	case remoting.CodeTooManyRequests,
		remoting.CodeInternalError,
		remoting.CodeInternalServerError,
		remoting.CodeHANotAvailable,
		remoting.CodeRequestTimeout,
		remoting.CodeProxyTimeout,
		remoting.CodeMasterPersistenceTimeout,
		remoting.CodeSlavePersistenceTimeout:
		return ErrTransientRPC
	case remoting.CodeTopicNotFound:
		return ErrRouteNotFound
	default:
		return ErrMessageRejected
	}
}

// classifyTransport 按传输层错误分类。
//
// 凭证错误与客户端关闭原样返回，由调用方处理。
func classifyTransport(op, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, xauth.ErrCredentialsUnavailable) || errors.Is(err, mqcore.ErrClosed) {
		return err
	}
	st, ok := status.FromError(err)
	if !ok {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return &RPCError{Op: op, Endpoint: endpoint, Kind: ErrTransientRPC, Err: err}
		case errors.Is(err, context.Canceled):
			return &RPCError{Op: op, Endpoint: endpoint, Kind: context.Canceled, Err: err}
		}
		return &RPCError{Op: op, Endpoint: endpoint, Kind: ErrTransientRPC, Err: err}
	}
	var kind error
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted,
		codes.Aborted, codes.Internal, codes.Unknown:
		kind = ErrTransientRPC
	case codes.Canceled:
		kind = context.Canceled
	default:
		kind = ErrMessageRejected
	}
	return &RPCError{Op: op, Endpoint: endpoint, Kind: kind, Message: st.Message(), Err: err}
}

func malformed(op, endpoint, format string, args ...any) error {
	return &RPCError{Op: op, Endpoint: endpoint, Kind: ErrMalformedResponse, Err: fmt.Errorf(format, args...)}
}
