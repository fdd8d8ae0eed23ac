package bpart

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with bpart-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRun adds a run identifier to the logger.
func (l *Logger) WithRun(run uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", run),
	}
}

// LogRunStart logs the start of a run.
func (l *Logger) LogRunStart(ctx context.Context, documents int, features uint64, cfg Config) {
	l.DebugContext(ctx, "partitioning started",
		"documents", documents,
		"features", features,
		"split_depth", cfg.SplitDepth,
		"iterations_per_split", cfg.IterationsPerSplit,
		"skip_probability", cfg.SkipProbability,
	)
}

// LogRun logs a finished run.
func (l *Logger) LogRun(ctx context.Context, documents int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "partitioning failed",
			"documents", documents,
			"duration", duration,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "partitioning completed",
			"documents", documents,
			"duration", duration,
		)
	}
}

// LogSplit logs a finished local search.
func (l *Logger) LogSplit(stats SplitStats) {
	l.Debug("split completed",
		"depth", stats.Depth,
		"root_bucket", stats.RootBucket,
		"documents", stats.Documents,
		"signatures", stats.Signatures,
		"iterations", stats.Iterations,
		"moves", stats.Moves,
		"initial_goal", stats.InitialGoal,
		"final_goal", stats.FinalGoal,
		"improved", stats.Improved,
		"memory_bytes", stats.MemoryBytes,
	)
}
