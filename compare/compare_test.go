package compare

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/foldmatch/cache"
	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/pdb"
)

// bundle returns the first n helices of an irregular four helix bundle with
// alternating directions.
func bundle(n int) []*pdb.Residue {
	axes := []struct{ x, y float64 }{{0, 0}, {10, 0}, {11, 10}, {-1, 10}}
	var residues []*pdb.Residue
	for i := 0; i < n; i++ {
		x, y, down := axes[i].x, axes[i].y, i%2 == 1
		h := pdb.IdealHelix(byte('A'+i), 1, strings.Repeat("L", 12))
		residues = append(residues, pdb.MapResidues(h, func(c geom.Coords) geom.Coords {
			if down {
				c.Y, c.Z = -c.Y, -c.Z
			}
			return c.Add(geom.Coords{X: x, Y: y})
		})...)
	}
	return residues
}

func moved(residues []*pdb.Residue) []*pdb.Residue {
	cos, sin := math.Cos(1), math.Sin(1)
	return pdb.MapResidues(residues, func(c geom.Coords) geom.Coords {
		return geom.Coords{
			X: c.X*cos - c.Z*sin - 2,
			Y: c.Y + 5,
			Z: c.X*sin + c.Z*cos + 1,
		}
	})
}

func run(t *testing.T, a, b []*pdb.Residue, conf config.Config) match.Outcome {
	out, err := Compare(context.Background(),
		Prepare("a", a, conf), Prepare("b", b, conf), conf, Options{})
	require.NoError(t, err)
	return out
}

func TestIdenticalCopy(t *testing.T) {
	conf := config.Default()
	a := bundle(4)
	out := run(t, a, moved(a), conf)

	require.True(t, out.Accepted(), "reason %s", out.Reason)
	assert.Equal(t, match.ReasonNone, out.Reason)
	assert.Equal(t, 4, out.Match.Len())
	assert.Equal(t, "0-0,1-1,2-2,3-3", out.Match.Key())
	assert.Less(t, out.Match.RMSD(), 1e-3)
	assert.InDelta(t, 100, out.Match.CorePercentage, 1e-9)
	assert.Equal(t, 48, out.Match.CoreResidues)
	assert.Equal(t, conf.Search.Attempts, out.Attempts)
	assert.False(t, out.Exhausted)
}

// One helix missing from B: three of the four helices of A are matched.
func TestMissingHelix(t *testing.T) {
	conf := config.Default()
	out := run(t, bundle(4), moved(bundle(3)), conf)

	require.True(t, out.Accepted(), "reason %s", out.Reason)
	assert.Equal(t, 3, out.Match.Len())
	assert.Equal(t, "0-0,1-1,2-2", out.Match.Key())
	assert.InDelta(t, 75, out.Match.CorePercentage, 1e-9)
	assert.Equal(t, 36, out.Match.CoreResidues)
}

func TestRelaxedBound(t *testing.T) {
	a, b := bundle(4), moved(bundle(3))
	strict := config.Default()
	relaxed := config.Default()
	relaxed.Fit.RMSDMax = 2.0

	s := run(t, a, b, strict)
	r := run(t, a, b, relaxed)
	require.NotNil(t, s.Best)
	require.NotNil(t, r.Best)
	assert.GreaterOrEqual(t, r.Best.Len(), s.Best.Len())
}

func TestDeterministic(t *testing.T) {
	conf := config.Default()
	conf.Search.Workers = 3
	a, b := bundle(4), moved(bundle(4))

	first := run(t, a, b, conf)
	second := run(t, a, b, conf)
	require.NotNil(t, first.Best)
	assert.Equal(t, first.Best.Key(), second.Best.Key())
	assert.Equal(t, first.Best.Distance, second.Best.Distance)
	assert.Equal(t, first.Best.RMSD(), second.Best.RMSD())
	assert.Equal(t, first.Candidates, second.Candidates)
}

func TestInsufficientFragments(t *testing.T) {
	conf := config.Default()
	a := Prepare("bundle", bundle(4), conf)
	b := Prepare("single", bundle(1), conf)

	out, err := Compare(context.Background(), a, b, conf, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, match.ErrInsufficientFragments))
	var ie *match.InputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "single", ie.Structure)
	assert.Equal(t, 1, ie.Fragments)
	assert.Equal(t, match.ReasonInsufficientFragments, out.Reason)
	assert.False(t, out.Accepted())
}

func TestCancelled(t *testing.T) {
	conf := config.Default()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := Prepare("a", bundle(4), conf)

	out, err := Compare(ctx, a, a, conf, Options{})
	require.NoError(t, err)
	assert.True(t, out.Exhausted)
	assert.False(t, out.Accepted())
}

func writePDB(t *testing.T, dir, name string, residues []*pdb.Residue) string {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, pdb.Write(f, pdb.NewEntry(name, residues)))
	return path
}

// countingCache records how many lookups were served from the store.
type countingCache struct {
	*cache.Store
	hits int
}

func (c *countingCache) Get(key string, v interface{}) (bool, error) {
	found, err := c.Store.Get(key, v)
	if found {
		c.hits++
	}
	return found, err
}

func TestPreparerCache(t *testing.T) {
	dir := t.TempDir()
	conf := config.Default()
	path := writePDB(t, dir, "bundle.pdb", bundle(4))

	store, err := cache.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer store.Close()
	counted := &countingCache{Store: store}

	fresh, err := NewPreparer(conf, counted).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.Graph.Len())
	assert.Equal(t, 1, store.Len())
	assert.Zero(t, counted.hits)

	// A new preparer finds the unchanged file in the cache.
	p := NewPreparer(conf, counted)
	cached, err := p.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, counted.hits)
	assert.Equal(t, fresh.Name, cached.Name)
	assert.Equal(t, fresh.Graph.Edges, cached.Graph.Edges)
	assert.Equal(t, len(fresh.Residues()), len(cached.Residues()))

	again, err := p.Load(path)
	require.NoError(t, err)
	assert.Same(t, cached, again)

	// Rewriting the file in place invalidates its cache entry.
	writePDB(t, dir, "bundle.pdb", bundle(3))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	edited, err := NewPreparer(conf, counted).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, edited.Graph.Len())
	assert.Equal(t, 1, counted.hits)
	assert.Equal(t, 2, store.Len())

	// A different configuration does not share cache entries.
	other := config.Default()
	other.Extract.Window = 4
	_, err = NewPreparer(other, counted).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, counted.hits)
	assert.Equal(t, 3, store.Len())

	// Files that are gone cannot be validated against the cache.
	require.NoError(t, os.Remove(path))
	_, err = NewPreparer(conf, counted).Load(path)
	assert.Error(t, err)
}

func TestStructure(t *testing.T) {
	dir := t.TempDir()
	path := writePDB(t, dir, "helix.pdb", bundle(2))
	residues, err := Structure(path)
	require.NoError(t, err)
	assert.Len(t, residues, 24)

	_, err = Structure(filepath.Join(dir, "missing.pdb"))
	assert.Error(t, err)
}
