package ladder

import (
	"time"

	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/pdb"
	"github.com/BurntSushi/foldmatch/rmsd"
)

// evaluate checks consistency, superposes and judges a candidate. Every
// fragment correspondence is evaluated once per search; asking again
// returns the first verdict.
func (s *Search) evaluate(c *candidate) *candidate {
	k := c.key()
	if prev, ok := s.seen[k]; ok {
		return prev
	}
	s.seen[k] = c
	c.status = rejected

	if !s.matchers[c.dir].Check(c.mapping()) {
		s.fail(match.ReasonFailedConsistency)
		return c
	}
	res, err := s.superpose(c.pairs)
	if err != nil {
		s.logf("Could not superpose {%s}: %s", k, err)
		s.fail(match.ReasonNumericalFailure)
		return c
	}
	c.fit = res
	c.status = s.verdict(c)
	if c.status == near {
		s.repair(c)
	}
	switch c.status {
	case accepted:
		s.accepted[k] = c
	case near, rejected:
		s.fail(match.ReasonBelowThreshold)
	}
	return c
}

// superpose fits the B windows of the pairs onto the A windows.
func (s *Search) superpose(pairs []match.Pair) (rmsd.Result, error) {
	var resA, resB []*pdb.Residue
	for _, p := range pairs {
		fa := s.a.Nodes[p.A].Fragment.Residues
		fb := s.b.Nodes[p.B].Fragment.Residues
		resA = append(resA, fa[p.StartA:p.StartA+p.Length]...)
		resB = append(resB, fb[p.StartB:p.StartB+p.Length]...)
	}
	fixed, moving, err := rmsd.Backbone(resA, resB, s.conf.Fit.WithCB)
	if err != nil {
		return rmsd.Result{}, err
	}
	return rmsd.Fit(fixed, moving, s.conf.Fit)
}

// verdict accepts a tight superposition that passes the sequence gate. A
// looser one whose cross edges are on average no worse than the seeds is a
// near miss.
func (s *Search) verdict(c *candidate) status {
	bound := s.conf.Fit.RMSDMax
	switch {
	case c.fit.RMSD <= bound:
		if s.opts.Gate != nil && !s.opts.Gate.Accept(s.sequences(c.pairs)) {
			return rejected
		}
		return accepted
	case c.fit.RMSD <= s.conf.Search.RepairFactor*bound &&
		c.distance/float64(len(c.edges)) <= s.seedCutoff:
		return near
	}
	return rejected
}

// sequences returns the windowed sequences of the matched fragments.
func (s *Search) sequences(pairs []match.Pair) (seqsA, seqsB []string) {
	for _, p := range pairs {
		fa := s.a.Nodes[p.A].Fragment.Residues
		fb := s.b.Nodes[p.B].Fragment.Residues
		seqsA = append(seqsA, pdb.Sequence(fa[p.StartA:p.StartA+p.Length]))
		seqsB = append(seqsB, pdb.Sequence(fb[p.StartB:p.StartB+p.Length]))
	}
	return
}

// repair tries to rescue a near miss by moving the windows of the two most
// recently added fragment pairs by up to RepairShift residues. The windows
// are chosen by CA RMSD and then checked with a full backbone fit. Repairs
// stop for the rest of a cycle once they have used up RepairBudget.
func (s *Search) repair(c *candidate) {
	conf := s.conf.Search
	if conf.RepairShift <= 0 ||
		(conf.RepairBudget > 0 && s.repairSpent >= conf.RepairBudget) {
		return
	}
	start := time.Now()
	defer func() { s.repairSpent += time.Since(start) }()

	n := len(c.pairs)
	groupsA := make([][]*pdb.Residue, n)
	groupsB := make([][]*pdb.Residue, n)
	init := make([]rmsd.Window, n)
	shifts := make([]int, n)
	for i, p := range c.pairs {
		groupsA[i] = s.a.Nodes[p.A].Fragment.Residues
		groupsB[i] = s.b.Nodes[p.B].Fragment.Residues
		init[i] = rmsd.Window{StartA: p.StartA, StartB: p.StartB, Length: p.Length}
		if i >= n-2 {
			shifts[i] = conf.RepairShift
		}
	}
	trimmed, err := rmsd.TrimFit(groupsA, groupsB, init, shifts)
	if err != nil {
		return
	}

	pairs := append([]match.Pair(nil), c.pairs...)
	for i, w := range trimmed.Windows {
		pairs[i].StartA, pairs[i].StartB, pairs[i].Length = w.StartA, w.StartB, w.Length
	}
	res, err := s.superpose(pairs)
	if err != nil || res.RMSD > s.conf.Fit.RMSDMax {
		return
	}
	if s.opts.Gate != nil && !s.opts.Gate.Accept(s.sequences(pairs)) {
		return
	}
	c.pairs, c.fit, c.status = pairs, res, accepted
}
