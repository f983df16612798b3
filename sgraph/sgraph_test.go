package sgraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/pdb"
	"github.com/BurntSushi/foldmatch/ss"
)

func shifted(residues []*pdb.Residue, by geom.Coords) []*pdb.Residue {
	return pdb.MapResidues(residues, func(c geom.Coords) geom.Coords {
		return c.Add(by)
	})
}

func build(t *testing.T, residues []*pdb.Residue) *Graph {
	t.Helper()
	conf := config.Default()
	return Build("test", ss.Classify(residues, conf), conf.Classify)
}

func TestBuildParallelHelices(t *testing.T) {
	var residues []*pdb.Residue
	residues = append(residues, pdb.IdealHelix('A', 1, strings.Repeat("A", 12))...)
	residues = append(residues,
		shifted(pdb.IdealHelix('B', 1, strings.Repeat("A", 12)), geom.Coords{X: 10})...)
	residues = append(residues,
		shifted(pdb.IdealStrand('C', 1, strings.Repeat("V", 6)), geom.Coords{Y: 20})...)

	g := build(t, residues)
	require.Equal(t, 3, g.Len())
	require.Len(t, g.Edges, 3)
	assert.Equal(t, "H0", g.Nodes[0].Name())
	assert.Equal(t, "E2", g.Nodes[2].Name())

	hh, ok := g.Edge(1, 0)
	require.True(t, ok)
	assert.Equal(t, 0, hh.From)
	assert.Equal(t, 1, hh.To)
	assert.Equal(t, "HH", hh.Tag)
	assert.Less(t, hh.Angle, 30.0)
	assert.InDelta(t, 10, hh.MinDistance, 1.5)
	assert.LessOrEqual(t, hh.MinDistance, hh.Distance)
	assert.Zero(t, hh.SheetPacking)

	he, ok := g.Edge(0, 2)
	require.True(t, ok)
	assert.Equal(t, "HE", he.Tag)

	_, ok = g.Edge(1, 1)
	assert.False(t, ok)
	_, ok = g.Edge(0, 3)
	assert.False(t, ok)
}

func TestSheetPacking(t *testing.T) {
	var residues []*pdb.Residue
	residues = append(residues, pdb.IdealStrand('A', 1, strings.Repeat("V", 7))...)
	residues = append(residues,
		shifted(pdb.IdealStrand('B', 1, strings.Repeat("V", 7)), geom.Coords{Z: 4.8})...)

	g := build(t, residues)
	require.Equal(t, 2, g.Len())
	e, _ := g.Edge(0, 1)
	assert.Equal(t, "EE", e.Tag)
	assert.InDelta(t, 100, e.SheetPacking, 1e-9)
	assert.Equal(t, 0, g.Nodes[0].Fragment.Sheet)
	assert.Equal(t, 0, g.Nodes[1].Fragment.Sheet)
}

func TestPairIndex(t *testing.T) {
	for n := 0; n < 7; n++ {
		g := &Graph{Nodes: make([]Node, n)}
		seen := make(map[int]bool)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				k := g.pairIndex(i, j)
				assert.False(t, seen[k])
				assert.True(t, k >= 0 && k < n*(n-1)/2)
				seen[k] = true
			}
		}
		assert.Len(t, seen, n*(n-1)/2)
	}
}

func TestTag(t *testing.T) {
	assert.Equal(t, "HE", Tag(ss.Strand, ss.Helix))
	assert.Equal(t, "HE", Tag(ss.Helix, ss.Strand))
	assert.Equal(t, "EE", Tag(ss.Strand, ss.Strand))
}
