package match

import (
	"github.com/BurntSushi/foldmatch/config"
)

// Report is what one search attempt found.
type Report struct {
	// accepted candidates, best first
	Matches []*Match

	// why nothing was accepted, when Matches is empty
	Failure Reason

	// the attempt ran out of time before finishing its cycles
	Exhausted bool

	Cycles     int
	Candidates int
}

// Outcome is the verdict of one comparison.
type Outcome struct {
	// nil unless Reason is ReasonNone
	Match *Match

	// the best candidate even when it did not meet the thresholds
	Best *Match

	Reason    Reason
	Exhausted bool

	Attempts   int
	Candidates int
}

// Accepted reports whether the comparison found an acceptable match.
func (o Outcome) Accepted() bool {
	return o.Reason == ReasonNone && o.Match != nil
}

// Selector keeps the best of everything offered to it. The zero value is
// not usable; use NewSelector.
type Selector struct {
	rmsdMax float64
	conf    config.Select

	best       *Match
	failure    Reason
	exhausted  bool
	reports    int
	candidates int
}

// NewSelector returns a selector applying the RMSD bound rmsdMax and the
// core percentage threshold of conf.
func NewSelector(rmsdMax float64, conf config.Select) *Selector {
	return &Selector{rmsdMax: rmsdMax, conf: conf}
}

// Offer considers one candidate. Nil is ignored.
func (s *Selector) Offer(m *Match) {
	if m != nil && Better(m, s.best) {
		s.best = m
	}
}

// Fail records why some search found nothing. Only the failure that got
// furthest is kept.
func (s *Selector) Fail(r Reason) {
	if r > s.failure {
		s.failure = r
	}
}

// Merge adds a whole report.
func (s *Selector) Merge(r Report) {
	s.reports++
	s.candidates += r.Candidates
	for _, m := range r.Matches {
		s.Offer(m)
	}
	if len(r.Matches) == 0 {
		s.Fail(r.Failure)
	}
	s.exhausted = s.exhausted || r.Exhausted
}

// Best returns the best candidate offered so far, or nil.
func (s *Selector) Best() *Match {
	return s.best
}

// Outcome applies the thresholds to the best candidate. The core
// percentage of the best candidate must have been filled in by the caller.
func (s *Selector) Outcome() Outcome {
	out := Outcome{
		Best:       s.best,
		Exhausted:  s.exhausted,
		Attempts:   s.reports,
		Candidates: s.candidates,
	}
	switch {
	case s.best == nil:
		out.Reason = s.failure
		if out.Reason == ReasonNone {
			out.Reason = ReasonNoSeed
		}
	case s.best.RMSD() > s.rmsdMax,
		s.best.CorePercentage < s.conf.MinCorePercentage:
		out.Reason = ReasonBelowThreshold
	default:
		out.Match = s.best
	}
	return out
}

// Collect merges reports until the channel is closed. It is the single
// collection point for any number of concurrent searches.
func Collect(reports <-chan Report, s *Selector) {
	for r := range reports {
		s.Merge(r)
	}
}
