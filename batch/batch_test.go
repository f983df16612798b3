package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/foldmatch/compare"
	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/pdb"
)

func bundle(n int, shift geom.Coords) []*pdb.Residue {
	axes := []struct{ x, y float64 }{{0, 0}, {10, 0}, {11, 10}, {-1, 10}}
	var residues []*pdb.Residue
	for i := 0; i < n; i++ {
		x, y, down := axes[i].x, axes[i].y, i%2 == 1
		h := pdb.IdealHelix(byte('A'+i), 1, strings.Repeat("A", 12))
		residues = append(residues, pdb.MapResidues(h, func(c geom.Coords) geom.Coords {
			if down {
				c.Y, c.Z = -c.Y, -c.Z
			}
			return c.Add(geom.Coords{X: x, Y: y}).Add(shift)
		})...)
	}
	return residues
}

// files writes a four helix bundle, a shifted copy missing one helix and a
// single helix.
func files(t *testing.T) (full, three, single string) {
	dir := t.TempDir()
	write := func(name string, residues []*pdb.Residue) string {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		defer f.Close()
		require.NoError(t, pdb.Write(f, pdb.NewEntry(name, residues)))
		return path
	}
	return write("full.pdb", bundle(4, geom.Coords{})),
		write("three.pdb", bundle(3, geom.Coords{X: 4, Y: -3, Z: 2})),
		write("single.pdb", bundle(1, geom.Coords{}))
}

func TestRunContinuesAfterFailures(t *testing.T) {
	full, three, single := files(t)
	missing := filepath.Join(filepath.Dir(full), "missing.pdb")
	pairs := []Pair{
		{full, three},
		{full, single},
		{missing, full},
		{full, full},
	}
	conf := config.Default()
	conf.Search.Workers = 2
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	results := make([]Result, len(pairs))
	seen := 0
	for r := range Run(context.Background(), pairs, compare.NewPreparer(conf, nil),
		conf, Options{Metrics: metrics}) {
		results[r.Index] = r
		seen++
	}
	require.Equal(t, len(pairs), seen)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "accepted", results[0].Label())
	assert.Equal(t, 3, results[0].Outcome.Match.Len())

	assert.True(t, errors.Is(results[1].Err, match.ErrInsufficientFragments))
	assert.Equal(t, "insufficient-fragments", results[1].Label())

	assert.Error(t, results[2].Err)
	assert.Equal(t, "error", results[2].Label())

	assert.NoError(t, results[3].Err)
	assert.Equal(t, 4, results[3].Outcome.Match.Len())

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Comparisons.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.Comparisons.WithLabelValues("insufficient-fragments")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Comparisons.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Exhausted))
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.Comparisons))
}

func TestRunEmpty(t *testing.T) {
	conf := config.Default()
	n := 0
	for range Run(context.Background(), nil, compare.NewPreparer(conf, nil), conf, Options{}) {
		n++
	}
	assert.Zero(t, n)
}

func TestLocalScheduler(t *testing.T) {
	full, three, single := files(t)
	conf := config.Default()
	s := NewLocalScheduler(compare.NewPreparer(conf, nil), conf, Options{})
	ctx := context.Background()

	_, err := s.Submit(ctx, nil)
	assert.Error(t, err)

	id, err := s.Submit(ctx, []Pair{{full, three}, {full, single}, {three, full}})
	require.NoError(t, err)
	st, err := s.Poll(id)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)

	results, err := s.Collect(ctx, id)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
	}
	assert.Equal(t, single, results[1].B)
	assert.Error(t, results[1].Err)

	_, err = s.Poll(id)
	assert.True(t, errors.Is(err, ErrUnknownJob))
	_, err = s.Collect(ctx, "nope")
	assert.True(t, errors.Is(err, ErrUnknownJob))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Result{Err: errors.New("boom")}, "error"},
		{Result{Outcome: match.Outcome{Reason: match.ReasonNoSeed}}, "no-seed"},
		{Result{Outcome: match.Outcome{Match: &match.Match{}}}, "accepted"},
		{Result{Outcome: match.Outcome{Reason: match.ReasonBelowThreshold}}, "below-threshold"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.r.Label())
	}
}
