package arena

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"unsafe"

	"github.com/hupe1980/bpart/internal/conv"
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrMaxChunksExceeded is returned when the arena exceeds the maximum number of chunks.
	ErrMaxChunksExceeded = errors.New("arena: max chunks exceeded")
	// ErrFreed is returned when allocating from a freed arena.
	ErrFreed = errors.New("arena: freed")
)

const (
	// DefaultChunkSize is the default number of values per chunk.
	DefaultChunkSize = 4096
	// MinChunkSize is the smallest chunk size; smaller requests are rounded up.
	MinChunkSize = 16
	// MaxChunks limits the number of chunks to prevent excessive memory usage.
	MaxChunks = 65536
)

// Ref addresses a value allocated from an Arena.
type Ref uint32

// Stats tracks arena memory usage metrics.
type Stats struct {
	ChunksAllocated uint64 // Historical: total chunks ever created
	BytesReserved   uint64 // Current: memory held by active chunks
	ActiveChunks    uint64 // Current: active chunk count
	Len             uint64 // Current: number of live values
}

// Arena is a typed slab allocator.
type Arena[T any] struct {
	chunkSize  int
	chunkBits  int
	chunkMask  uint32
	chunkBytes int64
	chunks     [][]T
	n          int
	freed      bool
	allocated  uint64
	acquirer   MemoryAcquirer
}

type config struct {
	acquirer MemoryAcquirer
}

// Option is a configuration option for Arena.
type Option func(*config)

// WithMemoryAcquirer sets the memory acquirer for the arena.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(c *config) {
		c.acquirer = acquirer
	}
}

// New creates a new Arena holding chunkSize values per chunk.
// The chunk size is rounded up to a power of two; non-positive values use
// DefaultChunkSize. No memory is reserved until the first Alloc.
func New[T any](chunkSize int, opts ...Option) *Arena[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkSize = max(chunkSize, MinChunkSize)

	// Round up to next power of 2 for efficient bitwise operations
	chunkBits := bits.Len(uint(chunkSize - 1)) //nolint:gosec // chunkSize > 0
	chunkSize = 1 << chunkBits

	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var zero T
	return &Arena[T]{
		chunkSize:  chunkSize,
		chunkBits:  chunkBits,
		chunkMask:  uint32(chunkSize - 1), //nolint:gosec // chunkSize <= 1<<31
		chunkBytes: int64(chunkSize) * int64(unsafe.Sizeof(zero)),
		acquirer:   cfg.acquirer,
	}
}

func (a *Arena[T]) allocateChunk(ctx context.Context) error {
	if len(a.chunks) >= MaxChunks {
		// This is a critical failure for the arena.
		return ErrMaxChunksExceeded
	}

	// Acquire memory if acquirer is set
	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(ctx, a.chunkBytes); err != nil {
			return fmt.Errorf("arena: reserve chunk of %d bytes: %w", a.chunkBytes, err)
		}
	}

	a.chunks = append(a.chunks, make([]T, a.chunkSize))
	a.allocated++
	return nil
}

// Alloc allocates a zero value and returns its reference and address.
func (a *Arena[T]) Alloc(ctx context.Context) (Ref, *T, error) {
	if a.freed {
		return 0, nil, ErrFreed
	}

	ref, err := conv.IntToUint32(a.n)
	if err != nil {
		return 0, nil, err
	}

	chunkIdx := a.n >> a.chunkBits
	if chunkIdx == len(a.chunks) {
		if err := a.allocateChunk(ctx); err != nil {
			return 0, nil, err
		}
	}

	v := &a.chunks[chunkIdx][a.n&int(a.chunkMask)]
	a.n++
	return Ref(ref), v, nil
}

// Get returns the address of the value at ref.
// It panics on references that were never allocated.
func (a *Arena[T]) Get(ref Ref) *T {
	if int(ref) >= a.n {
		panic("arena: stale reference")
	}
	return &a.chunks[uint32(ref)>>a.chunkBits][uint32(ref)&a.chunkMask]
}

// Len returns the number of allocated values. Valid references are
// Ref(0) through Ref(Len()-1).
func (a *Arena[T]) Len() int {
	return a.n
}

// Stats returns the current arena statistics.
func (a *Arena[T]) Stats() Stats {
	active := uint64(len(a.chunks))
	return Stats{
		ChunksAllocated: a.allocated,
		BytesReserved:   active * uint64(a.chunkBytes), //nolint:gosec // chunkBytes > 0
		ActiveChunks:    active,
		Len:             uint64(a.n), //nolint:gosec // n >= 0
	}
}

// Free releases all arena memory. The arena cannot be reused afterwards.
func (a *Arena[T]) Free() {
	if a.freed {
		return
	}
	a.release(len(a.chunks))
	a.chunks = nil
	a.n = 0
	a.freed = true
}

func (a *Arena[T]) release(chunks int) {
	if a.acquirer != nil && chunks > 0 {
		a.acquirer.ReleaseMemory(int64(chunks) * a.chunkBytes)
	}
}
