package bisect

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"

	"github.com/hupe1980/bpart/internal/arena"
	"github.com/hupe1980/bpart/internal/pool"
	"github.com/hupe1980/bpart/internal/signature"
)

// signaturesPerDocument is the expected number of distinct features
// contributed by each document.
const signaturesPerDocument = 4

// localSearch improves the split of items between the two halves given by
// their buckets and reports whether the goal went down. Items are written
// back with their final half.
func (b *Bisector) localSearch(ctx context.Context, items []Item, depth uint32, root uint64, rng *rand.Rand) (bool, error) {
	n := len(items)
	leftBucket, rightBucket := 2*root, 2*root+1

	var opts []arena.Option
	if b.rc != nil {
		opts = append(opts, arena.WithMemoryAcquirer(b.rc))
	}
	tbl := signature.NewTable(b.model, signaturesPerDocument*n, opts...)
	defer tbl.Release()

	sc := pool.Get(n)
	defer pool.Put(sc)

	for i := range items {
		left := items[i].Bucket == leftBucket
		if !left {
			sc.SetRight(i)
		}
		for _, f := range items[i].Features {
			ref, err := tbl.Add(ctx, f, left)
			if err != nil {
				return false, err
			}
			sc.AppendRef(ref)
		}
		sc.EndDocument()
	}

	stats := SplitStats{
		Depth:       depth,
		RootBucket:  root,
		Documents:   n,
		Signatures:  tbl.Len(),
		InitialGoal: tbl.Goal(),
	}

	for stats.Iterations < int(b.cfg.IterationsPerSplit) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		stats.Iterations++

		moved := b.iterate(tbl, sc, rng)
		stats.Moves += moved
		if moved == 0 {
			break
		}
	}

	stats.FinalGoal = tbl.Goal()
	stats.Improved = stats.FinalGoal < stats.InitialGoal
	stats.MemoryBytes = tbl.Stats().BytesReserved

	for i := range items {
		if sc.IsRight(i) {
			items[i].Bucket = rightBucket
		} else {
			items[i].Bucket = leftBucket
		}
	}

	b.observer.ObserveSplit(stats)
	return stats.Improved, nil
}

// iterate runs one round of pairwise swaps and returns the number of
// documents that changed sides.
func (b *Bisector) iterate(tbl *signature.Table, sc *pool.SplitContext, rng *rand.Rand) int {
	tbl.Prepare()

	sc.Left = sc.Left[:0]
	sc.Right = sc.Right[:0]
	for i := 0; i < sc.Len(); i++ {
		right := sc.IsRight(i)
		sc.Gains[i] = tbl.MoveGain(sc.Refs(i), !right)
		if right {
			sc.Right = append(sc.Right, i)
		} else {
			sc.Left = append(sc.Left, i)
		}
	}

	byGain := func(x, y int) int {
		return cmp.Compare(sc.Gains[y], sc.Gains[x])
	}
	slices.SortStableFunc(sc.Left, byGain)
	slices.SortStableFunc(sc.Right, byGain)

	moved := 0
	for i := 0; i < min(len(sc.Left), len(sc.Right)); i++ {
		l, r := sc.Left[i], sc.Right[i]
		if sc.Gains[l]+sc.Gains[r] <= 0 {
			break
		}
		moved += b.move(tbl, sc, l, rng)
		moved += b.move(tbl, sc, r, rng)
	}
	return moved
}

// move flips document i to the other half unless the move is skipped.
func (b *Bisector) move(tbl *signature.Table, sc *pool.SplitContext, i int, rng *rand.Rand) int {
	if rng.Float64() < b.cfg.SkipProbability {
		return 0
	}
	tbl.Move(sc.Refs(i), !sc.IsRight(i))
	sc.Flip(i)
	return 1
}
