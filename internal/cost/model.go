package cost

import "math"

// Log2TableSize is the number of precomputed log2 values.
// The table is small enough to stay in cache.
const Log2TableSize = 16384

// Model evaluates the log-gap cost. It is read-only after New and safe for
// concurrent use.
type Model struct {
	log2 [Log2TableSize]float64
}

// New creates a Model with a precomputed log2 table.
func New() *Model {
	m := &Model{}
	// log2(0) is never used with a non-zero factor; keep it finite.
	m.log2[0] = 0
	for i := 1; i < Log2TableSize; i++ {
		m.log2[i] = math.Log2(float64(i))
	}
	return m
}

// Log2 returns log2(x), using the table when possible.
func (m *Model) Log2(x uint32) float64 {
	if x < Log2TableSize {
		return m.log2[x]
	}
	return math.Log2(float64(x))
}

// LogCost returns -(x*log2(x+1) + y*log2(y+1)).
func (m *Model) LogCost(x, y uint32) float64 {
	return -(float64(x)*m.Log2(x+1) + float64(y)*m.Log2(y+1))
}

// Contribution returns the goal contribution of a feature with the given
// counts, shifted so that a feature confined to one half contributes 0.
func (m *Model) Contribution(left, right uint32) float64 {
	return m.LogCost(left, right) - m.LogCost(left+right, 0)
}

// MoveCosts returns the change in cost of moving one referencing document
// from left to right (lr) and from right to left (rl). A direction that is
// impossible for the given counts yields 0.
func (m *Model) MoveCosts(left, right uint32) (lr, rl float64) {
	c := m.LogCost(left, right)
	if left > 0 {
		lr = c - m.LogCost(left-1, right+1)
	}
	if right > 0 {
		rl = c - m.LogCost(left+1, right-1)
	}
	return lr, rl
}
