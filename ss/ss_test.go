package ss

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/cv"
	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/pdb"
)

// synthetic builds n valid CVs with anchors spaced along +x starting at
// origin. Consecutive vectors alternate around the x axis so that the
// angle between neighbours is the given angle (degrees).
func synthetic(n int, magnitude, angle, spacing float64,
	origin geom.Coords, start int) []cv.CV {

	beta := angle / 2 * math.Pi / 180
	cvs := make([]cv.CV, n)
	for i := range cvs {
		sign := 1.0
		if i%2 == 1 {
			sign = -1
		}
		a := origin.Add(geom.Coords{X: float64(i) * spacing})
		v := geom.Coords{X: math.Cos(beta), Y: sign * math.Sin(beta)}
		cvs[i] = cv.CV{
			Index:     i,
			Start:     start + i,
			Magnitude: magnitude,
			A:         a,
			B:         a.Add(v.Scale(magnitude)),
			Residues:  make([]pdb.ResidueID, 3),
			Valid:     true,
		}
	}
	return cvs
}

func TestLabelCanonical(t *testing.T) {
	conf := config.Default().Classify
	tests := []struct {
		name string
		cvs  []cv.CV
		want Type
	}{
		{"helix", synthetic(8, 2.2, 20, 1.7, geom.Coords{}, 0), Helix},
		{"strand", synthetic(8, 1.4, 54, 3.4, geom.Coords{}, 0), Strand},
		{"coil", synthetic(8, 0.5, 120, 3.8, geom.Coords{}, 0), Coil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, l := range Label(tt.cvs, conf) {
				assert.Equal(t, tt.want, l, "CV %d", i)
			}
		})
	}
}

func TestFeatures(t *testing.T) {
	feats := Features(synthetic(4, 1.4, 54, 3.4, geom.Coords{}, 0))
	require.Len(t, feats, 4)
	assert.Equal(t, 1, feats[0].Neighbors)
	assert.Equal(t, 2, feats[1].Neighbors)
	for _, f := range feats {
		assert.InDelta(t, 54, f.Angle, 1e-9)
		assert.InDelta(t, 3.4, f.Distance, 1e-9)
		assert.InDelta(t, 27, f.AngleOfDistance, 1e-9)
		assert.Zero(t, StrandPenalty(f))
		assert.Greater(t, HelixPenalty(f), 1.0)
	}

	invalid := []cv.CV{{Magnitude: cv.Invalid}}
	assert.Zero(t, Features(invalid)[0].Neighbors)
}

// An ambiguous strand-like run becomes strand only when another run packs
// against it.
func TestLabelNeighbourSupport(t *testing.T) {
	conf := config.Default().Classify
	alone := synthetic(6, 1.9, 54, 3.4, geom.Coords{}, 0)
	f := Features(alone)[2]
	require.Greater(t, StrandPenalty(f), conf.StrandSensitivity)
	require.LessOrEqual(t, StrandPenalty(f),
		conf.AmbiguityFactor*conf.StrandSensitivity)

	for _, l := range Label(alone, conf) {
		assert.Equal(t, Coil, l)
	}

	paired := append(synthetic(6, 1.9, 54, 3.4, geom.Coords{}, 0),
		synthetic(6, 1.9, 54, 3.4, geom.Coords{Y: 4.8}, 100)...)
	for i, l := range Label(paired, conf) {
		assert.Equal(t, Strand, l, "CV %d", i)
	}
}

// The second pass promotes coil only. A helix packed against a strand
// keeps its label, and so does the strand.
func TestLabelSecondPassOnlyPromotes(t *testing.T) {
	conf := config.Default().Classify
	cvs := append(synthetic(6, 2.2, 20, 1.7, geom.Coords{}, 0),
		synthetic(6, 1.4, 54, 3.4, geom.Coords{Y: 4.8}, 100)...)
	labels := Label(cvs, conf)
	for i, l := range labels[:6] {
		assert.Equal(t, Helix, l, "CV %d", i)
	}
	for i, l := range labels[6:] {
		assert.Equal(t, Strand, l, "CV %d", i+6)
	}
}

func checkPartition(t *testing.T, a *Assignment) {
	t.Helper()
	var all []*pdb.Residue
	for i, f := range a.Fragments {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, len(all), f.Start)
		require.NotEmpty(t, f.Residues)
		all = append(all, f.Residues...)
	}
	assert.Equal(t, a.Residues, all)
}

func TestClassifyIdeal(t *testing.T) {
	helix := pdb.IdealHelix('A', 1, strings.Repeat("A", 12))
	strand := pdb.IdealStrand('B', 1, strings.Repeat("V", 8))
	a := Classify(append(helix, strand...), config.Default())

	checkPartition(t, a)
	require.Len(t, a.Fragments, 2)

	h, s := a.Fragments[0], a.Fragments[1]
	assert.Equal(t, Helix, h.Type)
	assert.Equal(t, 12, h.Len())
	assert.Equal(t, strings.Repeat("A", 12), h.Sequence)
	assert.Len(t, h.CVs, 10)

	assert.Equal(t, Strand, s.Type)
	assert.Equal(t, 8, s.Len())
	assert.Equal(t, -1, s.Sheet)
	assert.Len(t, a.Structured(), 2)
}

func TestClassifyShortHelix(t *testing.T) {
	a := Classify(pdb.IdealHelix('A', 1, "AAAAA"), config.Default())
	checkPartition(t, a)
	require.Len(t, a.Fragments, 1)
	assert.Equal(t, Coil, a.Fragments[0].Type)
	assert.Empty(t, a.Structured())
}

func TestBoundaryRepair(t *testing.T) {
	conf := config.Default().Classify
	labels := func() []Type {
		var ls []Type
		for i := 0; i < 6; i++ {
			ls = append(ls, Helix)
		}
		ls = append(ls, Coil)
		for i := 0; i < 8; i++ {
			ls = append(ls, Helix)
		}
		return ls
	}
	build := func(seq string) *Assignment {
		return &Assignment{
			Residues: pdb.IdealHelix('A', 1, seq),
			Labels:   labels(),
			Breaks:   make([]bool, len(seq)),
		}
	}

	t.Run("glycine hinge", func(t *testing.T) {
		a := build("AAAAAAGAAAAAAAA")
		a.Fragments = a.fragments(conf)
		checkPartition(t, a)
		require.Len(t, a.Fragments, 1)
		assert.Equal(t, Helix, a.Fragments[0].Type)
		assert.Equal(t, 15, a.Fragments[0].Len())
	})
	t.Run("no hinge", func(t *testing.T) {
		a := build("AAAAAAAAAAAAAAA")
		a.Fragments = a.fragments(conf)
		checkPartition(t, a)
		require.Len(t, a.Fragments, 2)
		assert.Equal(t, Coil, a.Fragments[0].Type)
		assert.Equal(t, 7, a.Fragments[0].Len())
		assert.Equal(t, Helix, a.Fragments[1].Type)
	})
	t.Run("no break crossing", func(t *testing.T) {
		a := build("AAAAAAGAAAAAAAA")
		a.Breaks[6] = true
		a.Fragments = a.fragments(conf)
		checkPartition(t, a)
		assert.Equal(t, Coil, a.Fragments[0].Type)
	})
}

func TestSheets(t *testing.T) {
	conf := config.Default().Classify
	var cvs []cv.CV
	var frags []Fragment
	for i, y := range []float64{0, 4.8, 30, 60, 64.8} {
		line := synthetic(5, 1.4, 54, 3.4, geom.Coords{Y: y}, 100*i)
		f := Fragment{Index: i, Type: Strand}
		for j := range line {
			f.CVs = append(f.CVs, len(cvs)+j)
		}
		cvs = append(cvs, line...)
		frags = append(frags, f)
	}
	frags = append(frags, Fragment{Index: 5, Type: Helix})

	Sheets(frags, cvs, conf)
	sheets := make([]int, len(frags))
	for i, f := range frags {
		sheets[i] = f.Sheet
	}
	assert.Equal(t, []int{0, 0, -1, 1, 1, -1}, sheets)

	assert.InDelta(t, 1, Packing(cvs[0:5], cvs[5:10], conf.NeighborCutoff), 1e-9)
	assert.Zero(t, Packing(cvs[0:5], cvs[10:15], conf.NeighborCutoff))
	assert.Zero(t, Packing(nil, cvs, conf.NeighborCutoff))
}

func TestResidueLabelTies(t *testing.T) {
	cvs := []cv.CV{
		{Start: 0, Residues: make([]pdb.ResidueID, 3), Valid: true},
		{Start: 1, Residues: make([]pdb.ResidueID, 3), Valid: true},
		{Start: 2, Residues: make([]pdb.ResidueID, 3), Valid: true},
	}
	labels := residueLabels(5, cvs, []Type{Helix, Strand, Coil})
	assert.Equal(t, []Type{Helix, Helix, Helix, Strand, Coil}, labels)
}
