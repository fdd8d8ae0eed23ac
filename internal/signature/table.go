package signature

import (
	"context"

	"github.com/hupe1980/bpart/internal/arena"
	"github.com/hupe1980/bpart/internal/cost"
)

// Signature is the state of one feature in a bisection step.
type Signature struct {
	// Left is the number of referencing documents in the left half.
	Left uint32
	// Right is the number of referencing documents in the right half.
	Right uint32
	// CostLR is the cached gain of moving one document from left to right.
	CostLR float64
	// CostRL is the cached gain of moving one document from right to left.
	CostRL float64
	// Dirty reports that the cached costs are stale.
	Dirty bool
}

// Table maps features to their signatures.
type Table struct {
	model *cost.Model
	index map[uint32]arena.Ref
	sigs  *arena.Arena[Signature]
}

// NewTable creates an empty table. sizeHint is the expected number of
// distinct features.
func NewTable(model *cost.Model, sizeHint int, opts ...arena.Option) *Table {
	return &Table{
		model: model,
		index: make(map[uint32]arena.Ref, sizeHint),
		sigs:  arena.New[Signature](min(max(sizeHint, 0), arena.DefaultChunkSize), opts...),
	}
}

// Add records one document referencing feature in the given half and
// returns the signature's reference.
func (t *Table) Add(ctx context.Context, feature uint32, left bool) (arena.Ref, error) {
	ref, ok := t.index[feature]
	var s *Signature
	if ok {
		s = t.sigs.Get(ref)
	} else {
		var err error
		ref, s, err = t.sigs.Alloc(ctx)
		if err != nil {
			return 0, err
		}
		t.index[feature] = ref
	}

	if left {
		s.Left++
	} else {
		s.Right++
	}
	s.Dirty = true
	return ref, nil
}

// Len returns the number of signatures.
func (t *Table) Len() int {
	return t.sigs.Len()
}

// Prepare recomputes the cached costs of all dirty signatures.
func (t *Table) Prepare() {
	for i := 0; i < t.sigs.Len(); i++ {
		s := t.sigs.Get(arena.Ref(i)) //nolint:gosec // i < Len fits in uint32
		if !s.Dirty {
			continue
		}
		mustBeReferenced(s)
		s.CostLR, s.CostRL = t.model.MoveCosts(s.Left, s.Right)
		s.Dirty = false
	}
}

// MoveGain returns the gain of moving a document with the given signatures
// out of its half. Costs must be prepared.
func (t *Table) MoveGain(refs []arena.Ref, fromLeft bool) float64 {
	gain := 0.0
	for _, ref := range refs {
		s := t.sigs.Get(ref)
		if fromLeft {
			gain += s.CostLR
		} else {
			gain += s.CostRL
		}
	}
	return gain
}

// Move updates the counts for a document with the given signatures leaving
// its half.
func (t *Table) Move(refs []arena.Ref, fromLeft bool) {
	for _, ref := range refs {
		s := t.sigs.Get(ref)
		s.Dirty = true
		if fromLeft {
			s.Left--
			s.Right++
		} else {
			s.Left++
			s.Right--
		}
	}
}

// Goal returns the average per-reference cost of the current partition.
// Lower is better; a table where every feature is confined to one half
// scores 0.
func (t *Table) Goal() float64 {
	sum := 0.0
	cnt := 0.0
	for i := 0; i < t.sigs.Len(); i++ {
		s := t.sigs.Get(arena.Ref(i)) //nolint:gosec // i < Len fits in uint32
		mustBeReferenced(s)
		sum += t.model.Contribution(s.Left, s.Right)
		cnt += float64(s.Left) + float64(s.Right)
	}
	if cnt > 0 {
		return sum / cnt
	}
	return 0
}

// Release frees the table's memory. The table must not be used afterwards.
func (t *Table) Release() {
	t.sigs.Free()
	t.index = nil
}

// Stats returns the statistics of the backing arena. BytesReserved is
// the memory the table holds against the run's limit.
func (t *Table) Stats() arena.Stats {
	return t.sigs.Stats()
}

func mustBeReferenced(s *Signature) {
	if s.Left == 0 && s.Right == 0 {
		panic("signature: feature without referencing documents")
	}
}
