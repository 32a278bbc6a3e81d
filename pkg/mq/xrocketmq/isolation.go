package xrocketmq

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/omeyang/xrocketmq/pkg/observability/xlog"
	"github.com/omeyang/xrocketmq/pkg/resilience/xbreaker"
)

// isolator 按 broker 端点维护熔断器。
//
// 只影响队列选择的偏好，不拒绝请求：所有队列都被隔离时仍会选中其一。
type isolator struct {
	threshold uint32
	timeout   time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	breakers map[string]*xbreaker.Breaker
}

func newIsolator(threshold uint32, timeout time.Duration, logger *slog.Logger) *isolator {
	return &isolator{
		threshold: threshold,
		timeout:   timeout,
		logger:    logger,
		breakers:  make(map[string]*xbreaker.Breaker),
	}
}

func (i *isolator) breaker(endpoint string) *xbreaker.Breaker {
	i.mu.Lock()
	defer i.mu.Unlock()
	if b, ok := i.breakers[endpoint]; ok {
		return b
	}
	b := xbreaker.NewBreaker(endpoint,
		xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(i.threshold)),
		// 只有瞬时错误说明端点不健康；业务拒绝与端点无关。
		xbreaker.WithSuccessPolicy(xbreaker.SuccessFunc(func(err error) bool {
			return !errors.Is(err, ErrTransientRPC)
		})),
		xbreaker.WithTimeout(i.timeout),
		xbreaker.WithOnStateChange(func(name string, from, to xbreaker.State) {
			i.logger.Info("endpoint isolation state changed",
				xlog.Endpoint(name), slog.String("from", from.String()), slog.String("to", to.String()))
		}),
	)
	i.breakers[endpoint] = b
	return b
}

// isolated 端点是否处于隔离状态。
func (i *isolator) isolated(endpoint string) bool {
	i.mu.Lock()
	b, ok := i.breakers[endpoint]
	i.mu.Unlock()
	return ok && b.State() == xbreaker.StateOpen
}

// record 记录一次发送结果。熔断器拒绝放行时忽略。
func (i *isolator) record(endpoint string, err error) {
	done, allowErr := i.breaker(endpoint).Allow()
	if allowErr != nil {
		return
	}
	done(err)
}
