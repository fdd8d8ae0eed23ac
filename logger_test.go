package bpart

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).WithRun(7)

	logger.LogRunStart(context.Background(), 3, 2, DefaultConfig())
	logger.LogSplit(SplitStats{Depth: 1, RootBucket: 2, Documents: 3, Improved: true, MemoryBytes: 512})
	logger.LogRun(context.Background(), 3, time.Millisecond, nil)
	logger.LogRun(context.Background(), 3, time.Millisecond, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "run=7")
	assert.Contains(t, out, `msg="partitioning started" run=7 documents=3 features=2 split_depth=16`)
	assert.Contains(t, out, "root_bucket=2")
	assert.Contains(t, out, "improved=true memory_bytes=512")
	assert.Contains(t, out, `level=ERROR msg="partitioning failed"`)
	assert.Contains(t, out, "error=boom")
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	logger.LogRun(context.Background(), 1, time.Second, errors.New("ignored"))
}

func TestNewLoggerDefaults(t *testing.T) {
	assert.NotNil(t, NewLogger(nil))
	assert.True(t, NewJSONLogger(slog.LevelDebug).Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, NewTextLogger(slog.LevelWarn).Enabled(context.Background(), slog.LevelInfo))
}
