package xauth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xrocketmq/pkg/resilience/xretry"
)

func fastRetryer(attempts int) *xretry.Retryer {
	return xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(attempts)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	)
}

func TestNewRefreshableProvider_NilLoader(t *testing.T) {
	_, err := NewRefreshableProvider(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilLoader)
}

func TestRefreshableProvider_InitialLoad(t *testing.T) {
	var calls atomic.Int32
	p, err := NewRefreshableProvider(context.Background(), func(context.Context) (*SessionCredentials, error) {
		calls.Add(1)
		return &SessionCredentials{AccessKey: "AK", AccessSecret: "SK"}, nil
	}, WithRefreshInterval(time.Hour))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, int32(1), calls.Load())
	c, err := p.SessionCredentials()
	require.NoError(t, err)
	assert.Equal(t, "AK", c.AccessKey)
	assert.Equal(t, NeverExpire, c.ExpiresAt)
	assert.Equal(t, int64(1), p.Loads())
}

func TestRefreshableProvider_RenewsBeforeExpiry(t *testing.T) {
	var gen atomic.Int32
	p, err := NewRefreshableProvider(context.Background(), func(context.Context) (*SessionCredentials, error) {
		n := gen.Add(1)
		return &SessionCredentials{
			AccessKey:    "AK" + string(rune('0'+n)),
			AccessSecret: "SK",
			ExpiresAt:    time.Now().Add(200 * time.Millisecond),
		}, nil
	},
		WithRefreshAhead(150*time.Millisecond),
		WithMinWait(10*time.Millisecond),
	)
	require.NoError(t, err)
	defer p.Close()

	assert.Eventually(t, func() bool { return p.Loads() >= 3 }, 2*time.Second, 10*time.Millisecond)
	c, err := p.SessionCredentials()
	require.NoError(t, err)
	assert.NotEqual(t, "AK1", c.AccessKey)
}

func TestRefreshableProvider_InitialFailureThenRecover(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	boom := errors.New("sts down")
	p, err := NewRefreshableProvider(context.Background(), func(context.Context) (*SessionCredentials, error) {
		if fail.Load() {
			return nil, boom
		}
		return &SessionCredentials{AccessKey: "AK", AccessSecret: "SK"}, nil
	},
		WithLoadRetryer(fastRetryer(1)),
		WithMinWait(10*time.Millisecond),
		WithRefreshInterval(time.Hour),
	)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.SessionCredentials()
	assert.ErrorIs(t, err, ErrCredentialsUnavailable)
	assert.ErrorIs(t, err, boom)

	fail.Store(false)
	assert.Eventually(t, func() bool {
		_, err := p.SessionCredentials()
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRefreshableProvider_FailureKeepsPreviousUntilExpiry(t *testing.T) {
	var calls atomic.Int32
	now := time.Now()
	var clock atomic.Pointer[time.Time]
	clock.Store(&now)

	p, err := NewRefreshableProvider(context.Background(), func(context.Context) (*SessionCredentials, error) {
		if calls.Add(1) == 1 {
			return &SessionCredentials{AccessKey: "AK", AccessSecret: "SK", ExpiresAt: now.Add(time.Hour)}, nil
		}
		return nil, errors.New("sts down")
	},
		WithLoadRetryer(fastRetryer(2)),
		WithRefreshAhead(2*time.Hour),
		WithMinWait(10*time.Millisecond),
		withClock(func() time.Time { return *clock.Load() }),
	)
	require.NoError(t, err)
	defer p.Close()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	c, err := p.SessionCredentials()
	require.NoError(t, err)
	assert.Equal(t, "AK", c.AccessKey)

	later := now.Add(time.Hour)
	clock.Store(&later)
	_, err = p.SessionCredentials()
	assert.ErrorIs(t, err, ErrCredentialsUnavailable)
}

func TestRefreshableProvider_InvalidLoadIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	p, err := NewRefreshableProvider(context.Background(), func(context.Context) (*SessionCredentials, error) {
		calls.Add(1)
		return &SessionCredentials{AccessKey: "AK"}, nil
	}, WithLoadRetryer(fastRetryer(5)), WithMinWait(time.Hour))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, int32(1), calls.Load())
	_, err = p.SessionCredentials()
	assert.ErrorIs(t, err, ErrCredentialsUnavailable)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshableProvider_LoaderHonorsTimeout(t *testing.T) {
	p, err := NewRefreshableProvider(context.Background(), func(ctx context.Context) (*SessionCredentials, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithLoadRetryer(fastRetryer(1)), WithLoadTimeout(20*time.Millisecond), WithMinWait(time.Hour))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.SessionCredentials()
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRefreshableProvider_CloseIdempotent(t *testing.T) {
	p, err := NewRefreshableProvider(context.Background(), func(context.Context) (*SessionCredentials, error) {
		return &SessionCredentials{AccessKey: "AK", AccessSecret: "SK"}, nil
	}, WithMinWait(5*time.Millisecond), WithRefreshInterval(5*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	loads := p.Loads()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, loads, p.Loads())

	_, err = p.SessionCredentials()
	assert.NoError(t, err)
}
