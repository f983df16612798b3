/*
Package match defines what a fragment correspondence between two structures
looks like and how the best one is chosen.

A Match (a "ladder") maps helices and strands of structure A onto helices
and strands of structure B, one to one, together with the residue windows
that were superposed. Searches report their candidates as Reports; a
Selector merges any number of Reports, in any order, into one Outcome.
Failing to find a match is not an error: the Outcome carries a Reason.
*/
package match

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/BurntSushi/foldmatch/rmsd"
)

// ErrInsufficientFragments is wrapped by the InputError returned for a
// structure with fewer than two helix or strand fragments.
var ErrInsufficientFragments = errors.New("fewer than two helix or strand " +
	"fragments")

// InputError reports a structure that cannot take part in a comparison.
type InputError struct {
	Structure string
	Fragments int
	Err       error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s (found %d)", e.Structure, e.Err, e.Fragments)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Reason explains why a comparison did not produce an acceptable match.
// Failure reasons are ordered: a larger value means the search got further
// before failing.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInsufficientFragments
	ReasonNoSeed
	ReasonFailedConsistency
	ReasonNumericalFailure
	ReasonBelowThreshold
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInsufficientFragments:
		return "insufficient-fragments"
	case ReasonNoSeed:
		return "no-seed"
	case ReasonFailedConsistency:
		return "failed-consistency"
	case ReasonNumericalFailure:
		return "numerical-failure"
	case ReasonBelowThreshold:
		return "below-threshold"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Pair maps fragment A (a node id of structure A's graph) onto fragment B.
// The residues StartA..StartA+Length of A and StartB..StartB+Length of B
// (offsets within the fragments) are superposed.
type Pair struct {
	A, B           int
	StartA, StartB int
	Length         int
}

func (p Pair) String() string {
	return fmt.Sprintf("%d:%d[%d+%d/%d+%d]",
		p.A, p.B, p.StartA, p.Length, p.StartB, p.Length)
}

// Match is an accepted fragment correspondence.
type Match struct {
	// sorted by A
	Pairs []Pair

	// B fragments run in the opposite order of A fragments.
	Reversed bool

	// sum of the distances of the cross edges the ladder was built from
	Distance float64

	// indices of those cross edges in the product graph
	Edges []int

	// superposition of B's windows onto A's
	Fit rmsd.Result

	// filled in by the comparison once a match wins
	CorePercentage float64
	CoreResidues   int
}

// Len is the number of matched fragments.
func (m *Match) Len() int {
	return len(m.Pairs)
}

// RMSD is the RMSD of the superposition over the atoms it kept.
func (m *Match) RMSD() float64 {
	return m.Fit.RMSD
}

// Key identifies the fragment correspondence, ignoring windows.
func (m *Match) Key() string {
	return Key(m.Pairs)
}

// Residues is the number of superposed residue pairs.
func (m *Match) Residues() int {
	n := 0
	for _, p := range m.Pairs {
		n += p.Length
	}
	return n
}

func (m *Match) String() string {
	return fmt.Sprintf("%d fragments {%s} distance %0.4f RMSD %0.3f",
		m.Len(), m.Key(), m.Distance, m.RMSD())
}

// Key formats fragment pairs, e.g., "0-0,1-2". Pairs are expected to be
// sorted by A.
func Key(pairs []Pair) string {
	pieces := make([]string, len(pairs))
	for i, p := range pairs {
		pieces[i] = fmt.Sprintf("%d-%d", p.A, p.B)
	}
	return strings.Join(pieces, ",")
}

// DistanceTolerance is the margin within which two cumulative distances
// count as equal. Sums of edge distances pick up rounding noise well below
// it.
const DistanceTolerance = 1e-9

// Better reports whether a ranks before b: more fragments first, then
// lower cumulative distance (up to DistanceTolerance), then lower RMSD,
// then the smaller key. The
// order is total, so merging candidates never depends on their order of
// arrival. A nil match ranks last.
func Better(a, b *Match) bool {
	switch {
	case b == nil:
		return a != nil
	case a == nil:
		return false
	case a.Len() != b.Len():
		return a.Len() > b.Len()
	case math.Abs(a.Distance-b.Distance) > DistanceTolerance:
		return a.Distance < b.Distance
	case a.RMSD() != b.RMSD():
		return a.RMSD() < b.RMSD()
	}
	return a.Key() < b.Key()
}

// Sort orders matches best first.
func Sort(ms []*Match) {
	sort.SliceStable(ms, func(i, j int) bool { return Better(ms[i], ms[j]) })
}

// SequenceGate decides whether the sequences of matched fragments are
// similar enough for a candidate to be accepted. seqsA[i] is matched with
// seqsB[i].
type SequenceGate interface {
	Accept(seqsA, seqsB []string) bool
}
