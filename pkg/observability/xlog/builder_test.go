package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestBuilder_JSONWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, _, cleanup, err := New().
		SetOutput(&buf).
		SetFormat("JSON").
		SetAttrs(ClientID("host@1@0@abc")).
		Build()
	require.NoError(t, err)
	defer func() { assert.NoError(t, cleanup()) }()

	logger.Info("route updated", Topic("T1"), Endpoint("127.0.0.1:8081"), Attempt(2), Err(errors.New("boom")), Err(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "route updated", rec["msg"])
	assert.Equal(t, "host@1@0@abc", rec[KeyClientID])
	assert.Equal(t, "T1", rec[KeyTopic])
	assert.Equal(t, "127.0.0.1:8081", rec[KeyEndpoint])
	assert.EqualValues(t, 2, rec[KeyAttempt])
	assert.Equal(t, "boom", rec[KeyError])
}

func TestBuilder_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, level, _, err := New().SetOutput(&buf).SetLevelString("warn").Build()
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	level.Set(slog.LevelDebug)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestBuilder_Errors(t *testing.T) {
	_, _, _, err := New().SetLevelString("loud").Build()
	assert.Error(t, err)

	_, _, _, err = New().SetFormat("xml").Build()
	assert.Error(t, err)

	_, _, _, err = New().SetRotation("", Rotation{}).Build()
	assert.Error(t, err)
}

func TestBuilder_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rocketmq_client.log")
	logger, _, cleanup, err := New().SetRotation(path, Rotation{MaxSizeMB: 1}).Build()
	require.NoError(t, err)

	logger.Info("producer started")
	require.NoError(t, cleanup())
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "producer started")
}

func TestEnrichHandler_AddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger, _, _, err := New().SetOutput(&buf).SetFormat("json").Build()
	require.NoError(t, err)

	traceID, _ := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	spanID, _ := trace.SpanIDFromHex("b7ad6b7169203331")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.With(Component("producer")).WithGroup("send").InfoContext(ctx, "sent")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	group, ok := rec["send"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", group[KeyTraceID])
	assert.Equal(t, "producer", rec[KeyComponent])
}
