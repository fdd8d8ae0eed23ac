package testutil

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DocSpec describes a generated document.
type DocSpec struct {
	ID       uint64
	Features []uint32
	// Group is the generating cluster, or -1 if there is none.
	Group int
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Shuffle shuffles docs in place.
func (r *RNG) Shuffle(docs []DocSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(docs), func(i, j int) {
		docs[i], docs[j] = docs[j], docs[i]
	})
}

// RandomDocs generates n documents with perDoc distinct features drawn
// uniformly from [0, vocab).
func (r *RNG) RandomDocs(n, vocab, perDoc int) []DocSpec {
	r.mu.Lock()
	defer r.mu.Unlock()

	perDoc = min(perDoc, vocab)
	docs := make([]DocSpec, n)
	for i := range docs {
		docs[i] = DocSpec{
			ID:       uint64(i), //nolint:gosec // i >= 0
			Features: r.distinctLocked(perDoc, func() int { return r.rand.Intn(vocab) }),
			Group:    -1,
		}
	}
	return docs
}

// ZipfDocs generates n documents with perDoc distinct features drawn from a
// Zipfian distribution over [0, vocab). Few features are shared by many
// documents, as with hot code in a function trace.
func (r *RNG) ZipfDocs(n, vocab, perDoc int, s float64) []DocSpec {
	r.mu.Lock()
	defer r.mu.Unlock()

	perDoc = min(perDoc, vocab)
	docs := make([]DocSpec, n)
	for i := range docs {
		docs[i] = DocSpec{
			ID:       uint64(i), //nolint:gosec // i >= 0
			Features: r.distinctLocked(perDoc, func() int { return r.zipfLocked(vocab, s) }),
			Group:    -1,
		}
	}
	return docs
}

// distinctLocked draws until it has k distinct values (caller must hold lock).
func (r *RNG) distinctLocked(k int, draw func() int) []uint32 {
	seen := make(map[uint32]struct{}, k)
	out := make([]uint32, 0, k)
	for len(out) < k {
		f := uint32(draw()) //nolint:gosec // draw returns values in [0, vocab)
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// ClusteredDocs generates groups*perGroup documents in round-robin group
// order. Document i belongs to group i%groups and has three of the four
// features 100*group+0..3, so documents of one group share most features and
// documents of different groups share none.
func ClusteredDocs(groups, perGroup int) []DocSpec {
	docs := make([]DocSpec, groups*perGroup)
	for i := range docs {
		g, j := i%groups, i/groups
		features := make([]uint32, 0, 3)
		for t := 0; t < 4; t++ {
			if t != j%4 {
				features = append(features, uint32(100*g+t)) //nolint:gosec // small values
			}
		}
		docs[i] = DocSpec{ID: uint64(i), Features: features, Group: g} //nolint:gosec // i >= 0
	}
	return docs
}

// Features returns the feature lists of docs in order.
func Features(docs []DocSpec) [][]uint32 {
	out := make([][]uint32, len(docs))
	for i, d := range docs {
		out[i] = d.Features
	}
	return out
}

// postingLists returns, for every feature in ascending order, the positions
// of the documents that contain it.
func postingLists(features [][]uint32) ([]uint32, map[uint32][]uint32) {
	lists := make(map[uint32][]uint32)
	for pos, fs := range features {
		for _, f := range fs {
			lists[f] = append(lists[f], uint32(pos)) //nolint:gosec // positions fit in 32 bits in tests
		}
	}
	keys := make([]uint32, 0, len(lists))
	for f := range lists {
		keys = append(keys, f)
	}
	slices.Sort(keys)
	return keys, lists
}

// PostingListSize returns the zstd-compressed size in bytes of the
// delta-encoded posting lists of the given document order. Orders that keep
// documents with shared features together compress better.
func PostingListSize(features [][]uint32) (int, error) {
	keys, lists := postingLists(features)

	var buf []byte
	for _, f := range keys {
		buf = binary.AppendUvarint(buf, uint64(f))
		buf = binary.AppendUvarint(buf, uint64(len(lists[f])))
		prev := uint32(0)
		for _, pos := range lists[f] {
			buf = binary.AppendUvarint(buf, uint64(pos-prev))
			prev = pos
		}
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return 0, fmt.Errorf("failed to create compressor: %w", err)
	}
	defer func() { _ = enc.Close() }()

	return len(enc.EncodeAll(buf, nil)), nil
}

// GapCost returns the average number of bits needed to encode the gaps
// between consecutive documents sharing a feature, log2(gap+1) per gap.
// Lower is better.
func GapCost(features [][]uint32) float64 {
	_, lists := postingLists(features)

	var bits float64
	var gaps int
	for _, list := range lists {
		for i := 1; i < len(list); i++ {
			bits += math.Log2(float64(list[i]-list[i-1]) + 1)
			gaps++
		}
	}
	if gaps == 0 {
		return 0
	}
	return bits / float64(gaps)
}
