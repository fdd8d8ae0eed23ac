// Package arena provides a scoped slab allocator for per-split working state.
//
// An Arena hands out values of a single type from large chunks and addresses
// them with dense uint32 references, so the i-th allocated value has Ref(i).
// Memory is returned all at once with Free when the owning scope ends.
//
// # Ownership
//
// An Arena has exactly one owner and is not safe for concurrent use. Owners
// that run in parallel each create their own arena, which keeps their state
// structurally isolated from each other.
//
// # Memory Accounting
//
// With WithMemoryAcquirer every chunk is reserved from the acquirer before it
// is allocated and released again by Free. An acquirer refusing the
// reservation makes Alloc fail.
package arena
