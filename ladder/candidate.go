package ladder

import (
	"math"
	"sort"

	"github.com/BurntSushi/foldmatch/iso"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/rmsd"
)

type status int

const (
	rejected status = iota
	near
	accepted
)

// candidate is a ladder under construction. Pairs are kept in the order in
// which they were added; every cross edge adds one or two pairs, and
// steps[i] is the number of pairs after edges[i] was added.
type candidate struct {
	pairs []match.Pair
	edges []int
	steps []int

	// +1 when B fragments follow the order of A fragments, -1 when they
	// run backwards
	dir int

	distance float64
	fit      rmsd.Result
	status   status
}

// copy returns a candidate that shares no memory with c.
func (c *candidate) copy() *candidate {
	return &candidate{
		pairs:    append([]match.Pair(nil), c.pairs...),
		edges:    append([]int(nil), c.edges...),
		steps:    append([]int(nil), c.steps...),
		dir:      c.dir,
		distance: c.distance,
		fit:      c.fit,
		status:   c.status,
	}
}

func (c *candidate) len() int {
	return len(c.pairs)
}

// sorted returns the pairs ordered by A fragment.
func (c *candidate) sorted() []match.Pair {
	ps := append([]match.Pair(nil), c.pairs...)
	sort.Slice(ps, func(i, j int) bool { return ps[i].A < ps[j].A })
	return ps
}

func (c *candidate) key() string {
	return match.Key(c.sorted())
}

func (c *candidate) mapping() iso.Mapping {
	m := make(iso.Mapping, len(c.pairs))
	for i, p := range c.pairs {
		m[i] = iso.Pair{A: p.A, B: p.B}
	}
	return m
}

// image returns the B fragment that A fragment a maps to.
func (c *candidate) image(a int) (int, bool) {
	for _, p := range c.pairs {
		if p.A == a {
			return p.B, true
		}
	}
	return 0, false
}

// usesB reports whether B fragment b is already mapped.
func (c *candidate) usesB(b int) bool {
	for _, p := range c.pairs {
		if p.B == b {
			return true
		}
	}
	return false
}

// prefix returns the candidate as it was after its first n edges.
func (c *candidate) prefix(n int, crossDistance func(int) float64) *candidate {
	p := &candidate{
		pairs: append([]match.Pair(nil), c.pairs[:c.steps[n-1]]...),
		edges: append([]int(nil), c.edges[:n]...),
		steps: append([]int(nil), c.steps[:n]...),
		dir:   c.dir,
	}
	for _, e := range p.edges {
		p.distance += crossDistance(e)
	}
	return p
}

func (c *candidate) toMatch() *match.Match {
	return &match.Match{
		Pairs:    c.sorted(),
		Reversed: c.dir < 0,
		Distance: c.distance,
		Edges:    append([]int(nil), c.edges...),
		Fit:      c.fit,
	}
}

// ordered reports whether two pairs respect the ordering direction dir.
func ordered(p, q match.Pair, dir int) bool {
	return (p.A-q.A)*(p.B-q.B)*dir > 0
}

// rank orders candidates for carryover: accepted before near misses, then
// by the order of match.Better.
func rank(cs []*candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.status != b.status {
			return a.status > b.status
		}
		if a.len() != b.len() {
			return a.len() > b.len()
		}
		if math.Abs(a.distance-b.distance) > match.DistanceTolerance {
			return a.distance < b.distance
		}
		if a.fit.RMSD != b.fit.RMSD {
			return a.fit.RMSD < b.fit.RMSD
		}
		return a.key() < b.key()
	})
}
