package ladder

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/pdb"
	"github.com/BurntSushi/foldmatch/product"
	"github.com/BurntSushi/foldmatch/sgraph"
	"github.com/BurntSushi/foldmatch/ss"
)

// Helix axes of an irregular four helix bundle; neighbours run in opposite
// directions.
var axes = []struct {
	x, y float64
	down bool
}{
	{0, 0, false},
	{10, 0, true},
	{11, 10, false},
	{-1, 10, true},
}

// helixAt builds a 12 residue helix on the given axis. With extra > 0 the
// helix gets that many additional residues in front, such that its last 12
// residues sit exactly where the plain helix would be.
func helixAt(chain byte, extra int, x, y float64, down bool) []*pdb.Residue {
	h := pdb.IdealHelix(chain, 1, strings.Repeat("A", 12+extra))
	theta := -float64(extra) * 98.74 * math.Pi / 180
	rise := -float64(extra) * 1.542
	cos, sin := math.Cos(theta), math.Sin(theta)
	return pdb.MapResidues(h, func(c geom.Coords) geom.Coords {
		c = geom.Coords{X: c.X*cos - c.Y*sin, Y: c.X*sin + c.Y*cos, Z: c.Z + rise}
		if down {
			c.Y, c.Z = -c.Y, -c.Z
		}
		return c.Add(geom.Coords{X: x, Y: y})
	})
}

func bundle(n, extra int) []*pdb.Residue {
	var residues []*pdb.Residue
	for i := 0; i < n; i++ {
		ax := axes[i]
		residues = append(residues, helixAt(byte('A'+i), extra, ax.x, ax.y, ax.down)...)
	}
	return residues
}

// moved rotates residues by 30 degrees about z and shifts them.
func moved(residues []*pdb.Residue) []*pdb.Residue {
	cos, sin := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
	return pdb.MapResidues(residues, func(c geom.Coords) geom.Coords {
		return geom.Coords{
			X: c.X*cos - c.Y*sin + 3,
			Y: c.X*sin + c.Y*cos - 4,
			Z: c.Z + 7,
		}
	})
}

func graph(t *testing.T, name string, residues []*pdb.Residue, conf config.Config) *sgraph.Graph {
	a := ss.Classify(residues, conf)
	g := sgraph.Build(name, a, conf.Classify)
	require.NotEmpty(t, g.Nodes)
	return g
}

func search(t *testing.T, a, b []*pdb.Residue, conf config.Config, seed int64) *Search {
	pg, err := product.Build(graph(t, "a", a, conf), graph(t, "b", b, conf), conf.Product, false)
	require.NoError(t, err)
	return New(pg, conf, Options{Seed: seed})
}

func checkInjective(t *testing.T, m *match.Match) {
	as, bs := make(map[int]bool), make(map[int]bool)
	for _, p := range m.Pairs {
		assert.False(t, as[p.A], "A fragment %d mapped twice in %s", p.A, m)
		assert.False(t, bs[p.B], "B fragment %d mapped twice in %s", p.B, m)
		as[p.A], bs[p.B] = true, true
	}
}

func TestIdenticalCopy(t *testing.T) {
	conf := config.Default()
	a := bundle(4, 0)
	s := search(t, a, moved(a), conf, 1)
	require.Len(t, s.a.Nodes, 4)

	r := s.Run(context.Background())
	require.NotEmpty(t, r.Matches)
	assert.False(t, r.Exhausted)
	assert.Equal(t, conf.Search.Cycles, r.Cycles)

	best := r.Matches[0]
	assert.Equal(t, "0-0,1-1,2-2,3-3", best.Key())
	assert.False(t, best.Reversed)
	assert.Less(t, best.RMSD(), 1e-3)
	assert.Equal(t, 48, best.Residues())
	for _, m := range r.Matches {
		checkInjective(t, m)
		assert.LessOrEqual(t, m.RMSD(), conf.Fit.RMSDMax)
	}
}

func TestDeterministic(t *testing.T) {
	conf := config.Default()
	a, b := bundle(4, 0), moved(bundle(3, 0))

	first := search(t, a, b, conf, 42).Run(context.Background())
	second := search(t, a, b, conf, 42).Run(context.Background())
	require.NotEmpty(t, first.Matches)
	require.Equal(t, len(first.Matches), len(second.Matches))
	for i := range first.Matches {
		assert.Equal(t, first.Matches[i].Key(), second.Matches[i].Key())
		assert.Equal(t, first.Matches[i].Distance, second.Matches[i].Distance)
	}
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, 3, first.Matches[0].Len())
	assert.Equal(t, "0-0,1-1,2-2", first.Matches[0].Key())
	assert.False(t, first.Matches[0].Reversed)
}

func TestDeep(t *testing.T) {
	conf := config.Default()
	conf.Search.Deep = true
	conf.Search.Cycles = 2
	a := bundle(4, 0)
	r := search(t, a, moved(a), conf, 3).Run(context.Background())
	require.NotEmpty(t, r.Matches)
	assert.Equal(t, 4, r.Matches[0].Len())
	for _, m := range r.Matches {
		checkInjective(t, m)
	}
}

func TestNoSeed(t *testing.T) {
	conf := config.Default()
	conf.Product.Restrict = []string{"HH:HH"}
	a := bundle(3, 0)
	r := search(t, a, a, conf, 1).Run(context.Background())
	assert.Empty(t, r.Matches)
	assert.Equal(t, match.ReasonNoSeed, r.Failure)
	assert.Zero(t, r.Cycles)
}

func TestExhausted(t *testing.T) {
	conf := config.Default()
	a := bundle(4, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := search(t, a, a, conf, 1).Run(ctx)
	assert.True(t, r.Exhausted)
	assert.Empty(t, r.Matches)

	conf.Search.AttemptBudget = time.Nanosecond
	r = search(t, a, a, conf, 1).Run(context.Background())
	assert.True(t, r.Exhausted)
}

func TestEarlyStop(t *testing.T) {
	conf := config.Default()
	conf.Search.EarlyStop = 1
	a := bundle(4, 0)
	r := search(t, a, a, conf, 1).Run(context.Background())
	require.NotEmpty(t, r.Matches)
	assert.False(t, r.Exhausted)
	assert.Less(t, r.Cycles, conf.Search.Cycles)
}

// B's helices carry one additional residue in front, so the centered
// windows are off by one residue and only a boundary repair rescues them.
func TestRepair(t *testing.T) {
	conf := config.Default()
	s := search(t, bundle(2, 0), moved(bundle(2, 1)), conf, 1)
	require.Equal(t, 13, s.b.Nodes[0].Fragment.Len())

	c := &candidate{
		pairs: []match.Pair{s.window(0, 0), s.window(1, 1)},
		edges: []int{0},
		steps: []int{2},
		dir:   1,
	}
	require.Equal(t, 0, c.pairs[0].StartB)

	res, err := s.superpose(c.pairs)
	require.NoError(t, err)
	require.Greater(t, res.RMSD, conf.Fit.RMSDMax)

	s.repair(c)
	assert.Equal(t, accepted, c.status)
	assert.Less(t, c.fit.RMSD, 1e-3)
	for _, p := range c.pairs {
		assert.Equal(t, 1, p.StartB-p.StartA)
	}
}

func TestOrdered(t *testing.T) {
	p := match.Pair{A: 1, B: 5}
	tests := []struct {
		q    match.Pair
		dir  int
		want bool
	}{
		{match.Pair{A: 0, B: 2}, 1, true},
		{match.Pair{A: 0, B: 7}, 1, false},
		{match.Pair{A: 0, B: 7}, -1, true},
		{match.Pair{A: 3, B: 2}, -1, true},
		{match.Pair{A: 3, B: 2}, 1, false},
		{match.Pair{A: 1, B: 2}, 1, false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, ordered(p, test.q, test.dir), "%v %d", test.q, test.dir)
	}
}

func TestExtend(t *testing.T) {
	conf := config.Default()
	a := bundle(4, 0)
	s := search(t, a, a, conf, 1)

	// The best cross edge maps an A edge onto the identical B edge.
	seed, ok := s.extend(&candidate{}, 0)
	require.True(t, ok)
	require.Len(t, seed.pairs, 2)
	assert.Equal(t, seed.pairs[0].A, seed.pairs[0].B)
	assert.Equal(t, 1, seed.dir)

	// The same edge adds nothing.
	_, ok = s.extend(seed, 0)
	assert.False(t, ok)

	for e := range s.pg.Cross {
		next, ok := s.extend(seed, e)
		if !ok {
			continue
		}
		for i, p := range next.pairs {
			for _, q := range next.pairs[:i] {
				assert.True(t, ordered(p, q, next.dir))
				assert.NotEqual(t, p.A, q.A)
				assert.NotEqual(t, p.B, q.B)
			}
		}
		assert.Equal(t, seed.distance+s.pg.Cross[e].Distance, next.distance)
		assert.Len(t, seed.edges, 1, "extending must not modify the seed")
	}
}
