// Package pool provides object pools for allocation-free bisection steps.
// Uses sync.Pool for automatic memory reuse and bitsets for half membership.
package pool

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/bpart/internal/arena"
)

const (
	// DefaultMaxDocuments is the default initial capacity for per-document buffers.
	DefaultMaxDocuments = 1024

	// DefaultRefsPerDocument is the expected number of features per document.
	DefaultRefsPerDocument = 4

	// maxRetainedDocuments bounds the buffers kept in the pool.
	maxRetainedDocuments = DefaultMaxDocuments * 1024
)

// SplitContext contains pre-allocated buffers for one local search.
// It is owned by a single split between Get and Put.
type SplitContext struct {
	// Side holds half membership; a set bit means the right half.
	Side *bitset.BitSet
	// Gains holds the move gain per document.
	Gains []float64
	// Left and Right hold document indices grouped by half.
	Left  []int
	Right []int

	refs    []arena.Ref
	offsets []int
	n       int
}

// splitContextPool is the global pool of SplitContext objects.
var splitContextPool = sync.Pool{
	New: func() interface{} {
		return &SplitContext{
			Side:    bitset.New(DefaultMaxDocuments),
			Gains:   make([]float64, 0, DefaultMaxDocuments),
			Left:    make([]int, 0, DefaultMaxDocuments),
			Right:   make([]int, 0, DefaultMaxDocuments),
			refs:    make([]arena.Ref, 0, DefaultMaxDocuments*DefaultRefsPerDocument),
			offsets: make([]int, 0, DefaultMaxDocuments+1),
		}
	},
}

// Get retrieves a SplitContext for n documents from the pool.
func Get(n int) *SplitContext {
	sc := splitContextPool.Get().(*SplitContext)
	sc.Reset(n)
	return sc
}

// Put returns a SplitContext to the pool for reuse.
func Put(sc *SplitContext) {
	if cap(sc.Gains) > maxRetainedDocuments {
		return
	}
	splitContextPool.Put(sc)
}

// Reset clears the SplitContext for n documents.
func (sc *SplitContext) Reset(n int) {
	if sc.Side.Len() < uint(n) {
		sc.Side = bitset.New(uint(n))
	} else {
		sc.Side.ClearAll()
	}
	if cap(sc.Gains) < n {
		sc.Gains = make([]float64, n)
	}
	sc.Gains = sc.Gains[:n]
	sc.Left = sc.Left[:0]
	sc.Right = sc.Right[:0]
	sc.refs = sc.refs[:0]
	sc.offsets = append(sc.offsets[:0], 0)
	sc.n = n
}

// Len returns the number of documents the context was reset for.
func (sc *SplitContext) Len() int {
	return sc.n
}

// AppendRef appends a signature reference to the document currently being
// added. Documents are added in index order and closed with EndDocument.
func (sc *SplitContext) AppendRef(ref arena.Ref) {
	sc.refs = append(sc.refs, ref)
}

// EndDocument closes the reference list of the current document.
func (sc *SplitContext) EndDocument() {
	sc.offsets = append(sc.offsets, len(sc.refs))
}

// Refs returns the signature references of document i.
func (sc *SplitContext) Refs(i int) []arena.Ref {
	return sc.refs[sc.offsets[i]:sc.offsets[i+1]]
}

// IsRight reports whether document i is in the right half.
func (sc *SplitContext) IsRight(i int) bool {
	return sc.Side.Test(uint(i))
}

// SetRight places document i in the right half.
func (sc *SplitContext) SetRight(i int) {
	sc.Side.Set(uint(i))
}

// Flip moves document i to the other half.
func (sc *SplitContext) Flip(i int) {
	sc.Side.Flip(uint(i))
}
