package bpart

import (
	"log/slog"
	"runtime"

	"go.opentelemetry.io/otel/trace"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	tracerProvider   trace.TracerProvider
	parallelism      int
	minTaskSize      int
	memoryLimit      int64
}

// Option configures a Partitioner.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &bpart.BasicMetricsCollector{}
//	p, _ := bpart.New(bpart.DefaultConfig(), bpart.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.RunCount, stats.RunAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := bpart.NewJSONLogger(slog.LevelDebug)
//	p, _ := bpart.New(bpart.DefaultConfig(), bpart.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
// By default the global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithParallelism sets the maximum number of goroutines working on one run,
// including the caller's. 1 processes every subtree inline. Values < 1 use
// GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.parallelism = n
	}
}

// WithMinTaskSize sets the minimum number of documents of a subtree that is
// handed to another goroutine. Values < 1 use the default of 4.
func WithMinTaskSize(n int) Option {
	return func(o *options) {
		o.minTaskSize = n
	}
}

// WithMemoryLimit bounds the memory of the signature tables that are live at
// the same time. Runs that need more fail with ErrMemoryLimitExceeded.
// Values <= 0 disable the limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = max(bytes, 0)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		parallelism:      runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
