// Package resource implements the Controller that governs the resources
// shared by the runs of one partitioner.
//
// The Controller manages two resource types:
//
//   - Memory: Track and limit signature-table memory (non-blocking, fail-fast)
//   - Workers: Limit the number of subtrees bisected on extra goroutines
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(ctx, 1024*1024); err != nil {
//	    // ErrMemoryLimitExceeded or ctx.Err()
//	}
//	defer rc.ReleaseMemory(1024*1024)
//
// # Worker Slots
//
// Worker slots are only ever taken with TryAcquireWorker. A recursive task
// that finds no free slot runs its work inline instead of waiting:
//
//	if rc.TryAcquireWorker() {
//	    go func() {
//	        defer rc.ReleaseWorker()
//	        // ...
//	    }()
//	}
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle nil Controller gracefully. A nil Controller tracks
// nothing, never limits memory and never grants a worker slot.
package resource
