// Package promcollector exports partitioning metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, _ := promcollector.New(reg)
//	p, _ := bpart.New(bpart.DefaultConfig(), bpart.WithMetricsCollector(mc))
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/bpart"
)

// Namespace prefixes all metric names.
const Namespace = "bpart"

// Collector implements bpart.MetricsCollector.
type Collector struct {
	runLatency     *prometheus.HistogramVec
	documents      prometheus.Counter
	lastDocuments  prometheus.Gauge
	splits         *prometheus.CounterVec
	moves          prometheus.Counter
	splitIters     prometheus.Histogram
	goalReductions prometheus.Histogram
	splitBytes     prometheus.Histogram
}

var _ bpart.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Latency of partitioning runs",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"status"}),
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "documents_total",
			Help:      "Total documents passed to partitioning runs",
		}),
		lastDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_documents",
			Help:      "Number of documents of the most recent run",
		}),
		splits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "splits_total",
			Help:      "Total local searches by outcome",
		}, []string{"result"}),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "moves_total",
			Help:      "Total documents moved between halves",
		}),
		splitIters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "split_iterations",
			Help:      "Local search rounds per split",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		goalReductions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "split_goal_reduction",
			Help:      "Cost reduction of improved splits",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		splitBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "split_memory_bytes",
			Help:      "Signature table memory held per split",
			Buckets:   prometheus.ExponentialBuckets(512, 4, 10),
		}),
	}

	for _, col := range []prometheus.Collector{
		c.runLatency,
		c.documents,
		c.lastDocuments,
		c.splits,
		c.moves,
		c.splitIters,
		c.goalReductions,
		c.splitBytes,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordRun implements bpart.MetricsCollector.
func (c *Collector) RecordRun(documents int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.runLatency.WithLabelValues(status).Observe(duration.Seconds())
	c.documents.Add(float64(documents))
	c.lastDocuments.Set(float64(documents))
}

// RecordSplit implements bpart.MetricsCollector.
func (c *Collector) RecordSplit(stats bpart.SplitStats) {
	result := "unchanged"
	if stats.Improved {
		result = "improved"
		c.goalReductions.Observe(stats.InitialGoal - stats.FinalGoal)
	}
	c.splits.WithLabelValues(result).Inc()
	c.moves.Add(float64(stats.Moves))
	c.splitIters.Observe(float64(stats.Iterations))
	c.splitBytes.Observe(float64(stats.MemoryBytes))
}
