package bisect

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bpart/internal/cost"
	"github.com/hupe1980/bpart/internal/resource"
)

// DefaultMinTaskSize is the smallest range that may be handed to a worker.
const DefaultMinTaskSize = 4

// Config holds the bisection parameters.
type Config struct {
	// SplitDepth is the maximum recursion depth.
	SplitDepth uint32
	// IterationsPerSplit bounds the local search rounds per split.
	IterationsPerSplit uint32
	// SkipProbability is the chance of skipping a single move.
	SkipProbability float64
	// TaskSplitDepth is the recursion depth up to which subtrees may run
	// on separate goroutines.
	TaskSplitDepth uint32
	// MinTaskSize is the minimum range size for a separate goroutine.
	MinTaskSize int
}

// Item is one document in a bisection run.
type Item struct {
	// Features are the document's feature tokens, sorted ascending.
	Features []uint32
	// InputOrder is the position of the document in the caller's input.
	InputOrder uint64
	// Bucket is the assigned bucket.
	Bucket uint64
	// Index is an opaque caller reference carried along with the item.
	Index int
}

// SplitStats describes one completed local search.
type SplitStats struct {
	Depth       uint32
	RootBucket  uint64
	Documents   int
	Signatures  int
	Iterations  int
	Moves       int
	InitialGoal float64
	FinalGoal   float64
	Improved    bool
	MemoryBytes uint64
}

// Observer receives split statistics. It may be called concurrently.
type Observer interface {
	ObserveSplit(SplitStats)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(SplitStats)

// ObserveSplit calls f(s).
func (f ObserverFunc) ObserveSplit(s SplitStats) {
	f(s)
}

type noopObserver struct{}

func (noopObserver) ObserveSplit(SplitStats) {}

// Bisector runs recursive bisection. It holds no per-run state and may be
// used for multiple runs, including concurrent ones.
type Bisector struct {
	cfg      Config
	model    *cost.Model
	rc       *resource.Controller
	observer Observer
}

// New creates a Bisector. rc may be nil, in which case memory is not
// accounted and all subtrees run inline. observer may be nil.
func New(cfg Config, model *cost.Model, rc *resource.Controller, observer Observer) *Bisector {
	if cfg.MinTaskSize <= 0 {
		cfg.MinTaskSize = DefaultMinTaskSize
	}
	if model == nil {
		model = cost.New()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Bisector{
		cfg:      cfg,
		model:    model,
		rc:       rc,
		observer: observer,
	}
}

// Run assigns the buckets 0..len(items)-1 and sorts items by bucket.
// InputOrder must be set by the caller. On error the buckets and the order
// of items are unspecified.
func (b *Bisector) Run(ctx context.Context, items []Item) error {
	if err := b.bisect(ctx, items, 0, 1, 0); err != nil {
		return err
	}

	slices.SortStableFunc(items, func(x, y Item) int {
		return cmp.Compare(x.Bucket, y.Bucket)
	})
	return nil
}

func (b *Bisector) bisect(ctx context.Context, items []Item, depth uint32, root, offset uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := len(items)
	if n < 1 || depth >= b.cfg.SplitDepth {
		sortByInputOrder(items)
		assignSequential(items, offset)
		return nil
	}

	rng := rand.New(rand.NewPCG(root, root)) //nolint:gosec // not security sensitive
	leftBucket, rightBucket := 2*root, 2*root+1

	sortByInputOrder(items)
	half := (n + 1) / 2
	for i := range items {
		if i < half {
			items[i].Bucket = leftBucket
		} else {
			items[i].Bucket = rightBucket
		}
	}

	improved, err := b.localSearch(ctx, items, depth, root, rng)
	if err != nil {
		return err
	}
	if !improved {
		assignSequential(items, offset)
		return nil
	}

	mid := stablePartition(items, leftBucket)
	left, right := items[:mid], items[mid:]
	rightOffset := offset + uint64(mid) //nolint:gosec // mid >= 0

	if depth < b.cfg.TaskSplitDepth && n >= b.cfg.MinTaskSize && b.rc.TryAcquireWorker() {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer b.rc.ReleaseWorker()
			return b.bisect(gctx, left, depth+1, leftBucket, offset)
		})
		g.Go(func() error {
			return b.bisect(gctx, right, depth+1, rightBucket, rightOffset)
		})
		return g.Wait()
	}

	if err := b.bisect(ctx, left, depth+1, leftBucket, offset); err != nil {
		return err
	}
	return b.bisect(ctx, right, depth+1, rightBucket, rightOffset)
}

func sortByInputOrder(items []Item) {
	slices.SortStableFunc(items, func(x, y Item) int {
		return cmp.Compare(x.InputOrder, y.InputOrder)
	})
}

func assignSequential(items []Item, offset uint64) {
	for i := range items {
		items[i].Bucket = offset
		offset++
	}
}

// stablePartition moves the items of leftBucket to the front, keeping the
// relative order within both groups, and returns the size of the front.
func stablePartition(items []Item, leftBucket uint64) int {
	var right []Item
	k := 0
	for _, it := range items {
		if it.Bucket == leftBucket {
			items[k] = it
			k++
		} else {
			right = append(right, it)
		}
	}
	copy(items[k:], right)
	return k
}
