package remoting

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/omeyang/xrocketmq/pkg/business/xauth"
)

// RequestSigner 生成请求签名元数据，实现见 xauth.Signer。
type RequestSigner interface {
	Sign() (xauth.Headers, error)
}

// signContext 每次调用都重新签名，重试不会复用旧的时间戳与凭证。
func signContext(ctx context.Context, signer RequestSigner) (context.Context, error) {
	h, err := signer.Sign()
	if err != nil {
		if errors.Is(err, xauth.ErrCredentialsUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", xauth.ErrCredentialsUnavailable, err)
	}
	kv := make([]string, 0, 2*len(h))
	for k, v := range h {
		kv = append(kv, k, v)
	}
	return metadata.AppendToOutgoingContext(ctx, kv...), nil
}

// UnaryAuthInterceptor 为一元调用附加签名。凭证不可用时不发出请求。
func UnaryAuthInterceptor(signer RequestSigner) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, err := signContext(ctx, signer)
		if err != nil {
			return err
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// StreamAuthInterceptor 为流式调用附加签名，签名只在建流时发生一次。
func StreamAuthInterceptor(signer RequestSigner) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		ctx, err := signContext(ctx, signer)
		if err != nil {
			return nil, err
		}
		return streamer(ctx, desc, cc, method, opts...)
	}
}
