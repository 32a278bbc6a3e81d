package xretry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func newTestRetryer(attempts int, opts ...RetryerOption) *Retryer {
	base := []RetryerOption{
		WithRetryPolicy(NewFixedRetry(attempts)),
		WithBackoffPolicy(NewNoBackoff()),
	}
	return NewRetryer(append(base, opts...)...)
}

func TestRetryer_Do_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := newTestRetryer(3).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryer_Do_ExhaustsAttempts(t *testing.T) {
	calls := 0
	var retried []int
	r := newTestRetryer(3, WithOnRetry(func(attempt int, _ error) {
		retried = append(retried, attempt)
	}))

	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
	assert.NotEmpty(t, retried)
	assert.Equal(t, 1, retried[0])
}

func TestRetryer_Do_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	err := newTestRetryer(5).Do(context.Background(), func(context.Context) error {
		calls++
		return NewPermanentError(errTransient)
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestRetryer_Do_UnrecoverableStopsImmediately(t *testing.T) {
	calls := 0
	err := newTestRetryer(5).Do(context.Background(), func(context.Context) error {
		calls++
		return Unrecoverable(errTransient)
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestRetryer_Do_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	r := NewRetryer(
		WithRetryPolicy(NewFixedRetry(10)),
		WithBackoffPolicy(NewFixedBackoff(10*time.Millisecond)),
	)

	err := r.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errTransient
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), newTestRetryer(2), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errTransient
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestRetryer_InvalidArguments(t *testing.T) {
	var nilRetryer *Retryer
	assert.ErrorIs(t, nilRetryer.Do(context.Background(), func(context.Context) error { return nil }), ErrNilRetryer)

	r := NewRetryer()
	//nolint:staticcheck // 验证 nil ctx 防御
	assert.ErrorIs(t, r.Do(nil, func(context.Context) error { return nil }), ErrNilContext)
	assert.ErrorIs(t, r.Do(context.Background(), nil), ErrNilFunc)

	_, err := DoWithResult[int](context.Background(), nil, func(context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrNilRetryer)

	assert.Equal(t, 3, r.MaxAttempts())
	assert.Equal(t, 0, nilRetryer.MaxAttempts())
}
