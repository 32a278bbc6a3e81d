package mqcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifetime_EndIsIdempotent(t *testing.T) {
	l := NewLifetime()
	require.True(t, l.Alive())

	assert.True(t, l.End())
	assert.False(t, l.End())
	assert.False(t, l.Alive())
	assert.ErrorIs(t, context.Cause(l.Context()), ErrClosed)
}

func TestLifetime_BindCancelsOnEnd(t *testing.T) {
	l := NewLifetime()
	ctx, stop := l.Bind(context.Background())
	defer stop()

	l.End()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("bound context not cancelled after End")
	}
	assert.True(t, IsClosed(ctx))
}

func TestLifetime_BindKeepsParentCause(t *testing.T) {
	l := NewLifetime()
	defer l.End()

	parent, cancel := context.WithCancelCause(context.Background())
	ctx, stop := l.Bind(parent)
	defer stop()

	boom := errors.New("boom")
	cancel(boom)

	<-ctx.Done()
	assert.False(t, IsClosed(ctx))
	assert.ErrorIs(t, context.Cause(ctx), boom)
}

func TestLifetime_StopReleases(t *testing.T) {
	l := NewLifetime()
	ctx, stop := l.Bind(nil) //nolint:staticcheck // nil parent 归一化
	stop()

	assert.Error(t, ctx.Err())
	assert.False(t, IsClosed(ctx))
	assert.True(t, l.End())
	assert.False(t, IsClosed(nil)) //nolint:staticcheck // nil ctx
}
