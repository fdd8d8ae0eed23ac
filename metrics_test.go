package bpart

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	var mc BasicMetricsCollector

	assert.Equal(t, BasicMetricsStats{}, mc.GetStats())

	mc.RecordRun(10, 2*time.Millisecond, nil)
	mc.RecordRun(4, 4*time.Millisecond, errors.New("boom"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mc.RecordSplit(SplitStats{Iterations: 3, Moves: 2, Improved: i%2 == 0, MemoryBytes: uint64(512 * (i + 1))})
		}(i)
	}
	wg.Wait()

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.RunCount)
	assert.Equal(t, int64(1), stats.RunErrors)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.RunAvgNanos)
	assert.Equal(t, int64(14), stats.DocumentCount)
	assert.Equal(t, int64(8), stats.SplitCount)
	assert.Equal(t, int64(4), stats.ImprovedSplits)
	assert.Equal(t, int64(24), stats.IterationCount)
	assert.Equal(t, int64(16), stats.MoveCount)
	assert.Equal(t, uint64(4096), stats.MaxSplitBytes)
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	mc.RecordRun(1, time.Second, nil)
	mc.RecordSplit(SplitStats{})
}
