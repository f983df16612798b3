package ladder

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/BurntSushi/foldmatch/iso"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/rmsd"
)

// seeds returns the cross edges that start new ladders in a cycle. The
// first cycle prefers edges touching the first, middle or last fragment of
// A; later cycles sample the pool by weight.
func (s *Search) seeds(cycle int) []int {
	top := s.conf.Search.Top
	if cycle == 0 {
		n := s.a.Len()
		marks := map[int]bool{0: true, n / 2: true, n - 1: true}
		var first, rest []int
		for _, e := range s.pool {
			na := s.pg.Nodes[s.pg.Cross[e].A]
			if marks[na.From] || marks[na.To] {
				first = append(first, e)
			} else {
				rest = append(rest, e)
			}
		}
		seeds := append(first, rest...)
		if len(seeds) > top {
			seeds = seeds[:top]
		}
		return seeds
	}

	weights := make([]float64, len(s.pool))
	for i, e := range s.pool {
		weights[i] = s.pg.Cross[e].Weight
	}
	var seeds []int
	for len(seeds) < top && len(seeds) < len(s.pool) {
		i := s.pick(weights)
		seeds = append(seeds, s.pool[i])
		weights[i] = 0
	}
	return seeds
}

// pick draws an index with probability proportional to its weight.
func (s *Search) pick(weights []float64) int {
	total := floats.Sum(weights)
	last := 0
	r := s.rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
		last = i
	}
	return last
}

// window is the initial residue window of a fragment pair: as long as the
// shorter fragment, centered in the longer one.
func (s *Search) window(a, b int) match.Pair {
	la, lb := s.a.Nodes[a].Fragment.Len(), s.b.Nodes[b].Fragment.Len()
	l := min(la, lb)
	return match.Pair{A: a, B: b, StartA: (la - l) / 2, StartB: (lb - l) / 2, Length: l}
}

// extend adds cross edge e to c. It fails when the edge adds no fragment,
// maps a fragment twice on either side or breaks the order of the ladder.
// The result has not been evaluated.
func (s *Search) extend(c *candidate, e int) (*candidate, bool) {
	ce := s.pg.Cross[e]
	fp := s.pg.FragmentPairs(ce)

	var added []match.Pair
	for _, f := range fp {
		a, b := f[0], f[1]
		if img, ok := c.image(a); ok {
			if img != b {
				return nil, false
			}
			continue
		}
		if c.usesB(b) {
			return nil, false
		}
		added = append(added, s.window(a, b))
	}
	if len(added) == 0 {
		return nil, false
	}

	dir := c.dir
	if dir == 0 {
		dir = 1
		if fp[1][1] < fp[0][1] {
			dir = -1
		}
	}
	for i, p := range added {
		for _, q := range c.pairs {
			if !ordered(p, q, dir) {
				return nil, false
			}
		}
		for _, q := range added[:i] {
			if !ordered(p, q, dir) {
				return nil, false
			}
		}
	}

	next := c.copy()
	next.fit, next.status = rmsd.Result{}, rejected
	next.pairs = append(next.pairs, added...)
	next.edges = append(next.edges, e)
	next.steps = append(next.steps, len(next.pairs))
	next.dir = dir
	next.distance += ce.Distance
	return next, true
}

// extensions returns up to limit feasible extensions of c, lowest cross
// edge distance first. Extensions that were already evaluated and rejected
// are left out.
func (s *Search) extensions(c *candidate, limit int) []*candidate {
	var exts []*candidate
	keys := make(map[string]bool)
	for e := range s.pg.Cross {
		next, ok := s.extend(c, e)
		if !ok {
			continue
		}
		k := next.key()
		if keys[k] {
			continue
		}
		keys[k] = true
		if prev, ok := s.seen[k]; ok && prev.status == rejected {
			continue
		}
		exts = append(exts, next)
		if len(exts) >= limit {
			break
		}
	}
	return exts
}

// step grows c by one cross edge. It tries up to Breadth extensions, each
// drawn by weight among the Breadth best remaining ones, and returns the
// first that survives evaluation.
func (s *Search) step(c *candidate) *candidate {
	breadth := max(s.conf.Search.Breadth, 1)
	exts := s.extensions(c, 2*breadth)
	for tries := 0; len(exts) > 0 && tries < breadth; tries++ {
		choices := exts
		if len(choices) > breadth {
			choices = choices[:breadth]
		}
		weights := make([]float64, len(choices))
		for i, ext := range choices {
			weights[i] = s.pg.Cross[ext.edges[len(ext.edges)-1]].Weight
		}
		k := s.pick(weights)
		next := s.evaluate(exts[k])
		exts = append(exts[:k], exts[k+1:]...)
		if next.status >= near {
			return next
		}
	}
	return nil
}

// grow extends c step by step for as long as extensions survive. It
// returns every surviving candidate along the way.
func (s *Search) grow(ctx context.Context, c *candidate) []*candidate {
	var kept []*candidate
	if c.status >= near {
		kept = append(kept, c)
	}
	for c.status >= near && !s.stopped(ctx) {
		next := s.step(c)
		if next == nil {
			break
		}
		kept = append(kept, next)
		c = next
	}
	return kept
}

// restart returns a random prefix of a carried candidate, with at least
// one cross edge and, when possible, at least one edge fewer.
func (s *Search) restart(c *candidate) *candidate {
	n := len(c.edges)
	if n > 1 {
		n = 1 + s.rng.Intn(n-1)
	}
	return s.evaluate(c.prefix(n, func(e int) float64 {
		return s.pg.Cross[e].Distance
	}))
}

// carryover keeps the best distinct surviving candidates.
func (s *Search) carryover(cs []*candidate) []*candidate {
	k := s.conf.Search.Top
	if s.conf.Search.Deep {
		k *= max(s.conf.Search.DeepFactor, 1)
	}
	rank(cs)
	var keep []*candidate
	keys := make(map[string]bool)
	for _, c := range cs {
		if len(keep) >= k {
			break
		}
		if c.status < near || keys[c.key()] {
			continue
		}
		keys[c.key()] = true
		keep = append(keep, c)
	}
	return keep
}

// deepen searches exhaustively, within the step bound of package iso, for
// maximal extensions of the accepted candidates.
func (s *Search) deepen(ctx context.Context, kept []*candidate) []*candidate {
	var out []*candidate
	limit := max(s.conf.Search.DeepFactor, 1)
	done := make(map[string]bool)
	for _, c := range kept {
		if c.status != accepted || done[c.key()] {
			continue
		}
		done[c.key()] = true
		if s.stopped(ctx) {
			break
		}
		for _, m := range s.matchers[c.dir].Grow(c.mapping(), s.fragPairs, limit) {
			if len(m) <= c.len() {
				continue
			}
			next, ok := s.connect(c, m[c.len():])
			if !ok {
				continue
			}
			if next = s.evaluate(next); next.status >= near {
				out = append(out, next)
			}
		}
	}
	return out
}

// connect adds fragment pairs to c, each through the best cross edge that
// links it to a pair already present.
func (s *Search) connect(c *candidate, added []iso.Pair) (*candidate, bool) {
	next := c.copy()
	next.fit, next.status = rmsd.Result{}, rejected
	for _, p := range added {
		best := -1
		for _, q := range next.pairs {
			if e, ok := s.linking(q, p); ok && (best < 0 || e < best) {
				best = e
			}
		}
		if best < 0 {
			return nil, false
		}
		next.pairs = append(next.pairs, s.window(p.A, p.B))
		next.edges = append(next.edges, best)
		next.steps = append(next.steps, len(next.pairs))
		next.distance += s.pg.Cross[best].Distance
	}
	return next, true
}

// linking finds the cross edge mapping the A edge between q.A and p.A onto
// the B edge between q.B and p.B.
func (s *Search) linking(q match.Pair, p iso.Pair) (int, bool) {
	a1, a2, b1, b2 := q.A, p.A, q.B, p.B
	if a1 > a2 {
		a1, a2, b1, b2 = a2, a1, b2, b1
	}
	na, okA := s.aEdges[[2]int{a1, a2}]
	nb, okB := s.bEdges[[2]int{min(b1, b2), max(b1, b2)}]
	if !okA || !okB {
		return 0, false
	}
	e, ok := s.crossOf[crossKey{na, nb, b1 > b2}]
	return e, ok
}
