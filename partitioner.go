package bpart

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/bpart/internal/bisect"
	"github.com/hupe1980/bpart/internal/conv"
	"github.com/hupe1980/bpart/internal/cost"
	"github.com/hupe1980/bpart/internal/resource"
)

const instrumentationName = "github.com/hupe1980/bpart"

// Partitioner orders documents by recursive balanced bisection.
// It is safe for concurrent use.
type Partitioner struct {
	cfg         Config
	minTaskSize int

	model   *cost.Model
	rc      *resource.Controller
	logger  *Logger
	metrics MetricsCollector
	tracer  trace.Tracer

	runs atomic.Uint64
}

// New creates a Partitioner. It returns a *ConfigError if cfg is invalid.
func New(cfg Config, optFns ...Option) (*Partitioner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := applyOptions(optFns)

	var tracer trace.Tracer
	if opts.tracerProvider != nil {
		tracer = opts.tracerProvider.Tracer(instrumentationName)
	} else {
		tracer = otel.Tracer(instrumentationName)
	}

	return &Partitioner{
		cfg:         cfg,
		minTaskSize: opts.minTaskSize,
		model:       cost.New(),
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes: opts.memoryLimit,
			MaxWorkers:       int64(opts.parallelism - 1),
		}),
		logger:  opts.logger,
		metrics: opts.metricsCollector,
		tracer:  tracer,
	}, nil
}

// Partition is a convenience wrapper that creates a Partitioner and runs it
// once.
func Partition(ctx context.Context, docs []*Document, cfg Config, optFns ...Option) error {
	p, err := New(cfg, optFns...)
	if err != nil {
		return err
	}
	return p.Run(ctx, docs)
}

// Config returns the active configuration.
func (p *Partitioner) Config() Config {
	return p.cfg
}

// PeakMemoryUsage returns the highest signature table memory in bytes that
// was live at the same time.
func (p *Partitioner) PeakMemoryUsage() int64 {
	return p.rc.PeakMemoryUsage()
}

// Run reorders docs in place so that documents sharing features are adjacent
// and assigns every document its position as bucket.
//
// Documents are identified by pointer; a document that appears more than
// once fails the run with ErrDuplicateDocument. On error the order of docs
// and the buckets are left unchanged.
func (p *Partitioner) Run(ctx context.Context, docs []*Document) (err error) {
	start := time.Now()
	logger := p.logger.WithRun(p.runs.Add(1))

	ctx, span := p.tracer.Start(ctx, "bpart.Run",
		trace.WithAttributes(
			attribute.Int("bpart.documents", len(docs)),
			attribute.Int64("bpart.split_depth", int64(p.cfg.SplitDepth)),
			attribute.Int64("bpart.iterations_per_split", int64(p.cfg.IterationsPerSplit)),
			attribute.Float64("bpart.skip_probability", p.cfg.SkipProbability),
			attribute.Int64("bpart.memory_limit_bytes", p.rc.MemoryLimit()),
			attribute.Int64("bpart.max_workers", p.rc.MaxWorkers()),
		),
	)
	defer span.End()

	defer func() {
		duration := time.Since(start)
		p.metrics.RecordRun(len(docs), duration, err)
		logger.LogRun(ctx, len(docs), duration, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}()

	if _, err := conv.IntToUint32(len(docs)); err != nil {
		return fmt.Errorf("%w: %d", ErrTooManyDocuments, len(docs))
	}
	seen := make(map[*Document]int, len(docs))
	for i, d := range docs {
		if d == nil {
			return fmt.Errorf("%w at index %d", ErrNilDocument, i)
		}
		if j, ok := seen[d]; ok {
			return fmt.Errorf("%w at indices %d and %d", ErrDuplicateDocument, j, i)
		}
		seen[d] = i
	}

	items := make([]bisect.Item, len(docs))
	bitmaps := make([]*roaring.Bitmap, len(docs))
	for i, d := range docs {
		order := uint64(i) //nolint:gosec // i >= 0
		d.inputOrder = order
		items[i] = bisect.Item{Features: d.terms, InputOrder: order, Index: i}
		bitmaps[i] = d.features
	}

	features := roaring.FastOr(bitmaps...).GetCardinality()
	span.SetAttributes(attribute.Int64("bpart.features", int64(features))) //nolint:gosec // bounded by 2^32
	logger.LogRunStart(ctx, len(docs), features, p.cfg)

	b := bisect.New(bisect.Config{
		SplitDepth:         p.cfg.SplitDepth,
		IterationsPerSplit: p.cfg.IterationsPerSplit,
		SkipProbability:    p.cfg.SkipProbability,
		TaskSplitDepth:     p.cfg.TaskSplitDepth,
		MinTaskSize:        p.minTaskSize,
	}, p.model, p.rc, bisect.ObserverFunc(func(s bisect.SplitStats) {
		stats := SplitStats(s)
		logger.LogSplit(stats)
		p.metrics.RecordSplit(stats)
	}))

	if err := b.Run(ctx, items); err != nil {
		return err
	}

	sorted := make([]*Document, len(docs))
	for pos, it := range items {
		d := docs[it.Index]
		d.bucket = it.Bucket
		d.hasBucket = true
		sorted[pos] = d
	}
	copy(docs, sorted)

	span.AddEvent("partitioned", trace.WithAttributes(
		attribute.Int64("bpart.peak_memory_bytes", p.rc.PeakMemoryUsage()),
	))
	return nil
}
