package bpart

import (
	"sync/atomic"
	"time"
)

// SplitStats describes one local search of a run.
type SplitStats struct {
	// Depth is the recursion depth of the split.
	Depth uint32
	// RootBucket identifies the node in the recursion tree.
	RootBucket uint64
	// Documents is the number of documents in the split.
	Documents int
	// Signatures is the number of distinct features in the split.
	Signatures int
	// Iterations is the number of local search rounds performed.
	Iterations int
	// Moves is the number of documents that changed sides.
	Moves int
	// InitialGoal and FinalGoal are the cost before and after the search.
	InitialGoal float64
	FinalGoal   float64
	// Improved reports whether the split was kept and recursed into.
	Improved bool
	// MemoryBytes is the signature table memory held by the split.
	MemoryBytes uint64
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see package promcollector).
//
// RecordSplit may be called concurrently from multiple goroutines.
type MetricsCollector interface {
	// RecordRun is called after each run.
	// documents is the input size, duration is the total time taken,
	// err is nil if successful.
	RecordRun(documents int, duration time.Duration, err error)

	// RecordSplit is called after each local search.
	RecordSplit(stats SplitStats)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSplit(SplitStats)              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount       atomic.Int64
	RunErrors      atomic.Int64
	RunTotalNanos  atomic.Int64
	DocumentCount  atomic.Int64
	SplitCount     atomic.Int64
	ImprovedSplits atomic.Int64
	IterationCount atomic.Int64
	MoveCount      atomic.Int64
	MaxSplitBytes  atomic.Uint64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(documents int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	b.DocumentCount.Add(int64(documents))
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordSplit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplit(stats SplitStats) {
	b.SplitCount.Add(1)
	b.IterationCount.Add(int64(stats.Iterations))
	b.MoveCount.Add(int64(stats.Moves))
	if stats.Improved {
		b.ImprovedSplits.Add(1)
	}
	for {
		cur := b.MaxSplitBytes.Load()
		if stats.MemoryBytes <= cur || b.MaxSplitBytes.CompareAndSwap(cur, stats.MemoryBytes) {
			break
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:       b.RunCount.Load(),
		RunErrors:      b.RunErrors.Load(),
		RunAvgNanos:    b.getAvgRunNanos(),
		DocumentCount:  b.DocumentCount.Load(),
		SplitCount:     b.SplitCount.Load(),
		ImprovedSplits: b.ImprovedSplits.Load(),
		IterationCount: b.IterationCount.Load(),
		MoveCount:      b.MoveCount.Load(),
		MaxSplitBytes:  b.MaxSplitBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRunNanos() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount       int64
	RunErrors      int64
	RunAvgNanos    int64
	DocumentCount  int64
	SplitCount     int64
	ImprovedSplits int64
	IterationCount int64
	MoveCount      int64
	MaxSplitBytes  uint64
}
