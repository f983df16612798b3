package seq

import (
	"github.com/BurntSushi/foldmatch/config"
)

// Gate accepts a fragment correspondence when the matched fragments are
// similar in sequence. Every pair of fragment sequences is aligned
// globally and its score divided by the smaller of the two self scores;
// the mean of those normalized scores must reach MinScore.
type Gate struct {
	MinScore float64
	Gap      int
}

// NewGate returns the gate configured by conf, or nil when sequence gating
// is disabled.
func NewGate(conf config.Sequence) *Gate {
	if !conf.Enabled {
		return nil
	}
	return &Gate{MinScore: conf.MinScore, Gap: conf.Gap}
}

// Accept implements match.SequenceGate.
func (g *Gate) Accept(seqsA, seqsB []string) bool {
	if len(seqsA) != len(seqsB) {
		panic("Gate.Accept needs one sequence of B per sequence of A.")
	}
	if len(seqsA) == 0 {
		return true
	}
	return g.Score(seqsA, seqsB) >= g.MinScore
}

// Score is the mean normalized alignment score of the sequence pairs.
func (g *Gate) Score(seqsA, seqsB []string) float64 {
	total := 0.0
	for i := range seqsA {
		total += g.normalized(FromString("", seqsA[i]), FromString("", seqsB[i]))
	}
	return total / float64(len(seqsA))
}

func (g *Gate) normalized(a, b Sequence) float64 {
	self := SelfScore(a.Residues)
	if sb := SelfScore(b.Residues); sb < self {
		self = sb
	}
	if self <= 0 {
		return 0
	}
	return float64(NeedlemanWunsch(a.Residues, b.Residues, g.Gap).Score) /
		float64(self)
}
