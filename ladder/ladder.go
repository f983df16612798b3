/*
Package ladder searches the product graph of two structures for the largest
consistent correspondence between their helices and strands.

A ladder starts from one cross edge of the product graph, which maps two
fragments of A onto two fragments of B, and grows one cross edge at a time.
Every step must keep the correspondence one to one and in a single order
(B fragments either follow the order of A fragments or run against it), the
mapped fragments of A and B must relate to each other alike (checked with
package iso) and the superposition of the mapped residues must be tight.
Near misses get a small local repair of their fragment boundaries.

A Search runs a fixed number of cycles. Each cycle seeds new ladders, grows
them with a randomized choice among the best few extensions and carries the
best candidates over into the next cycle, where they are restarted from a
random prefix. The random source is seeded, so a search is reproducible.
Time limits are checked between steps; running out of time ends the search
with whatever it found.
*/
package ladder

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/iso"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/product"
	"github.com/BurntSushi/foldmatch/sgraph"
)

// Options are the parts of a search that are not configuration.
type Options struct {
	// seed of the random choices
	Seed int64

	// optional; when set, candidates must also pass it to be accepted
	Gate match.SequenceGate

	// receives failed superpositions; nil discards them
	Logger *log.Logger
}

type crossKey struct {
	a, b    int
	swapped bool
}

// Search is one ladder search attempt. It owns all of its mutable state;
// the product graph and both structural graphs are only read, so any number
// of searches may share them.
type Search struct {
	pg   *product.Graph
	a, b *sgraph.Graph
	conf config.Config
	opts Options
	rng  *rand.Rand

	matchers map[int]*iso.Matcher

	// positions in pg.Cross of the seed pool, best first, and the distance
	// of the worst of them
	pool       []int
	seedCutoff float64

	// product node of every structural edge and position of every cross
	// edge, for connecting grown mappings back to cross edges
	aEdges, bEdges map[[2]int]int
	crossOf        map[crossKey]int

	// every fragment pair of the eligible cross edges, best first
	fragPairs []iso.Pair

	seen        map[string]*candidate
	accepted    map[string]*candidate
	failure     match.Reason
	exhausted   bool
	start       time.Time
	repairSpent time.Duration
}

// New prepares a search of the product graph pg.
func New(pg *product.Graph, conf config.Config, opts Options) *Search {
	s := &Search{
		pg:       pg,
		a:        pg.A,
		b:        pg.B,
		conf:     conf,
		opts:     opts,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		matchers: make(map[int]*iso.Matcher),
		aEdges:   make(map[[2]int]int),
		bEdges:   make(map[[2]int]int),
		crossOf:  make(map[crossKey]int),
		seen:     make(map[string]*candidate),
		accepted: make(map[string]*candidate),
	}
	for _, dir := range []int{1, -1} {
		dir := dir
		s.matchers[dir] = &iso.Matcher{
			Vertex: s.vertex,
			Edge: func(a1, a2, b1, b2 int) bool {
				return s.edge(a1, a2, b1, b2, dir)
			},
		}
	}
	for i, n := range pg.Nodes {
		if n.Origin == product.OriginA {
			s.aEdges[[2]int{n.From, n.To}] = i
		} else {
			s.bEdges[[2]int{n.From, n.To}] = i
		}
	}

	known := make(map[iso.Pair]bool)
	for i, c := range pg.Cross {
		s.crossOf[crossKey{c.A, c.B, c.Swapped}] = i
		fp := pg.FragmentPairs(c)
		if !s.vertex(fp[0][0], fp[0][1]) || !s.vertex(fp[1][0], fp[1][1]) {
			continue
		}
		if len(s.pool) < conf.Search.MaxSeeds {
			s.pool = append(s.pool, i)
			s.seedCutoff = c.Distance
		}
		for _, f := range fp {
			p := iso.Pair{A: f[0], B: f[1]}
			if !known[p] {
				known[p] = true
				s.fragPairs = append(s.fragPairs, p)
			}
		}
	}
	return s
}

// Run searches until the configured number of cycles has run, the attempt
// budget or ctx runs out, or enough candidates have been accepted. It
// always returns what it found; running out of time is flagged in the
// report, not returned as an error.
func (s *Search) Run(ctx context.Context) match.Report {
	s.start = time.Now()
	if len(s.pool) == 0 {
		s.fail(match.ReasonNoSeed)
		return s.report(0)
	}

	var carry []*candidate
	cycle := 0
	for ; cycle < s.conf.Search.Cycles; cycle++ {
		if s.stopped(ctx) {
			break
		}
		s.repairSpent = 0

		var frontier []*candidate
		for _, c := range carry {
			frontier = append(frontier, s.restart(c))
		}
		for _, e := range s.seeds(cycle) {
			if c, ok := s.extend(&candidate{}, e); ok {
				frontier = append(frontier, s.evaluate(c))
			}
		}

		var kept []*candidate
		for _, c := range frontier {
			if s.stopped(ctx) {
				break
			}
			kept = append(kept, s.grow(ctx, c)...)
		}
		if s.conf.Search.Deep {
			kept = append(kept, s.deepen(ctx, kept)...)
		}
		carry = s.carryover(append(carry, kept...))
	}
	return s.report(cycle)
}

// stopped reports whether the search has to end now.
func (s *Search) stopped(ctx context.Context) bool {
	if ctx.Err() != nil {
		s.exhausted = true
		return true
	}
	if b := s.conf.Search.AttemptBudget; b > 0 && time.Since(s.start) >= b {
		s.exhausted = true
		return true
	}
	if e := s.conf.Search.EarlyStop; e > 0 && len(s.accepted) >= e {
		return true
	}
	return false
}

func (s *Search) fail(r match.Reason) {
	if r > s.failure {
		s.failure = r
	}
}

func (s *Search) logf(format string, v ...interface{}) {
	if s.opts.Logger != nil {
		s.opts.Logger.Printf(format, v...)
	}
}

func (s *Search) report(cycles int) match.Report {
	ms := make([]*match.Match, 0, len(s.accepted))
	for _, c := range s.accepted {
		ms = append(ms, c.toMatch())
	}
	match.Sort(ms)
	if keep := max(s.conf.Search.Top, 1); len(ms) > keep {
		ms = ms[:keep]
	}
	r := match.Report{
		Matches:    ms,
		Exhausted:  s.exhausted,
		Cycles:     cycles,
		Candidates: len(s.seen),
	}
	if len(ms) == 0 {
		r.Failure = s.failure
	}
	return r
}

// vertex reports whether fragment a of A may map onto fragment b of B.
func (s *Search) vertex(a, b int) bool {
	na, nb := s.a.Nodes[a], s.b.Nodes[b]
	if na.Type() != nb.Type() {
		return false
	}
	diff := na.Fragment.Len() - nb.Fragment.Len()
	return diff <= s.conf.Search.MaxLengthDiff &&
		-diff <= s.conf.Search.MaxLengthDiff
}

// edge reports whether A fragments a1, a2 relate to each other like B
// fragments b1, b2, and whether the pairs respect the direction dir.
func (s *Search) edge(a1, a2, b1, b2, dir int) bool {
	if (a2-a1)*(b2-b1)*dir <= 0 {
		return false
	}
	ea, okA := s.a.Edge(a1, a2)
	eb, okB := s.b.Edge(b1, b2)
	if !okA || !okB || ea.Tag != eb.Tag {
		return false
	}
	conf := s.conf.Search
	return math.Abs(ea.Angle-eb.Angle) <= conf.AngleTolerance &&
		math.Abs(ea.AngleOfDistance-eb.AngleOfDistance) <= conf.AngleTolerance &&
		math.Abs(ea.Distance-eb.Distance) <= conf.DistanceTolerance &&
		math.Abs(ea.MinDistance-eb.MinDistance) <= conf.DistanceTolerance
}
