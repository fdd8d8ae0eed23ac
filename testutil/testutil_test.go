package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomDocs(t *testing.T) {
	rng := NewRNG(4711)

	docs := rng.RandomDocs(16, 32, 5)

	assert.Equal(t, 16, len(docs))
	for i, d := range docs {
		assert.Equal(t, uint64(i), d.ID)
		assert.Equal(t, -1, d.Group)
		require.Len(t, d.Features, 5)
		assert.IsIncreasing(t, d.Features)
		assert.Less(t, d.Features[4], uint32(32))
	}
}

func TestRandomDocsCapsPerDoc(t *testing.T) {
	rng := NewRNG(1)

	docs := rng.RandomDocs(2, 3, 10)
	assert.Equal(t, []uint32{0, 1, 2}, docs[0].Features)
}

func TestZipfDocs(t *testing.T) {
	rng := NewRNG(4711)

	docs := rng.ZipfDocs(200, 64, 3, 1.5)

	counts := make(map[uint32]int)
	for _, d := range docs {
		require.Len(t, d.Features, 3)
		assert.IsIncreasing(t, d.Features)
		for _, f := range d.Features {
			counts[f]++
		}
	}
	assert.Greater(t, counts[0], counts[63])
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)

	a := rng.RandomDocs(4, 100, 4)
	rng.Reset()
	b := rng.RandomDocs(4, 100, 4)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestClusteredDocs(t *testing.T) {
	docs := ClusteredDocs(3, 5)

	require.Len(t, docs, 15)
	for i, d := range docs {
		assert.Equal(t, i%3, d.Group)
		require.Len(t, d.Features, 3)
		for _, f := range d.Features {
			assert.Equal(t, uint32(100*d.Group), f/100*100)
		}
	}
	assert.Equal(t, []uint32{1, 2, 3}, docs[0].Features)
	assert.Equal(t, []uint32{100, 102, 103}, docs[4].Features)
}

func TestShuffle(t *testing.T) {
	rng := NewRNG(7)

	docs := ClusteredDocs(2, 8)
	rng.Shuffle(docs)

	ids := make(map[uint64]bool)
	for _, d := range docs {
		ids[d.ID] = true
	}
	assert.Len(t, ids, 16)
}

func TestGapCost(t *testing.T) {
	grouped := [][]uint32{{1}, {1}, {2}, {2}}
	interleaved := [][]uint32{{1}, {2}, {1}, {2}}

	assert.InDelta(t, 1.0, GapCost(grouped), 1e-12)
	assert.InDelta(t, 1.584962500721156, GapCost(interleaved), 1e-12)
	assert.Zero(t, GapCost(nil))
}

func TestPostingListSize(t *testing.T) {
	docs := ClusteredDocs(8, 64)

	grouped := make([][]uint32, 0, len(docs))
	for g := 0; g < 8; g++ {
		for _, d := range docs {
			if d.Group == g {
				grouped = append(grouped, d.Features)
			}
		}
	}

	NewRNG(4711).Shuffle(docs)

	scattered, err := PostingListSize(Features(docs))
	require.NoError(t, err)
	assert.Positive(t, scattered)

	size, err := PostingListSize(grouped)
	require.NoError(t, err)
	assert.Less(t, size, scattered)
	assert.Less(t, GapCost(grouped), GapCost(Features(docs)))
}
