package iso

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adjacency matrices of two small labeled graphs
var (
	// 0-1-2 triangle with a tail 2-3
	graphA = [][]bool{
		{false, true, true, false},
		{true, false, true, false},
		{true, true, false, true},
		{false, false, true, false},
	}
	labelsA = []byte{'H', 'H', 'E', 'E'}

	// 0-1-2 triangle
	graphB = [][]bool{
		{false, true, true},
		{true, false, true},
		{true, true, false},
	}
	labelsB = []byte{'H', 'E', 'H'}
)

func matcher() *Matcher {
	return &Matcher{
		Vertex: func(a, b int) bool { return labelsA[a] == labelsB[b] },
		Edge: func(a1, a2, b1, b2 int) bool {
			return graphA[a1][a2] == graphB[b1][b2]
		},
	}
}

func allPairs() []Pair {
	var ps []Pair
	for a := range labelsA {
		for b := range labelsB {
			ps = append(ps, Pair{a, b})
		}
	}
	return ps
}

func TestCanExtend(t *testing.T) {
	mt := matcher()
	m := Mapping{{0, 0}}
	assert.True(t, mt.CanExtend(m, Pair{1, 2}))
	assert.False(t, mt.CanExtend(m, Pair{0, 2}), "A vertex reused")
	assert.False(t, mt.CanExtend(m, Pair{1, 0}), "B vertex reused")
	assert.False(t, mt.CanExtend(m, Pair{1, 1}), "labels differ")

	// 3 is not adjacent to 0 in A, but 1 is adjacent to 0 in B.
	assert.False(t, mt.CanExtend(m, Pair{3, 1}))
}

func TestCheck(t *testing.T) {
	mt := matcher()
	assert.True(t, mt.Check(Mapping{}))
	assert.True(t, mt.Check(Mapping{{0, 0}, {1, 2}, {2, 1}}))
	assert.False(t, mt.Check(Mapping{{0, 0}, {3, 1}}))
	assert.False(t, mt.Check(Mapping{{0, 0}, {1, 0}}))
}

func TestGrow(t *testing.T) {
	mt := matcher()
	found := mt.Grow(nil, allPairs(), 10)
	require.NotEmpty(t, found)

	// The triangle maps onto the triangle in two ways.
	assert.Len(t, found[0], 3)
	full := 0
	for _, m := range found {
		assert.True(t, mt.Check(m))
		if len(m) == 3 {
			full++
		}
	}
	assert.Equal(t, 2, full)

	// Growing from a seed keeps the seed.
	seeded := mt.Grow(Mapping{{2, 1}}, allPairs(), 10)
	require.NotEmpty(t, seeded)
	for _, m := range seeded {
		assert.Equal(t, Pair{2, 1}, m[0])
	}

	assert.Nil(t, mt.Grow(Mapping{{0, 1}}, allPairs(), 10), "inconsistent seed")
	assert.Len(t, mt.Grow(nil, allPairs(), 1), 1)
}

func TestGrowCopiesPerBranch(t *testing.T) {
	mt := &Matcher{}
	found := mt.Grow(nil, []Pair{{0, 0}, {0, 1}, {1, 1}}, 10)

	// {0->0, 1->1} and {0->1} are the maximal mappings; a shared buffer
	// between branches would corrupt the first one while building the
	// second.
	require.Len(t, found, 2)
	assert.Equal(t, Mapping{{0, 0}, {1, 1}}, found[0])
	assert.Equal(t, Mapping{{0, 1}}, found[1])
}

func TestGrowBudget(t *testing.T) {
	mt := matcher()
	mt.MaxSteps = 1
	assert.Empty(t, mt.Grow(nil, allPairs(), 10))
}
