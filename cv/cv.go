/*
Package cv computes characteristic vectors (CVs) from a protein backbone.

A CV summarizes a short window of consecutive residues by two anchor
points: A, the mean position of the window's CA atoms, and B, the mean
position of its carbonyl oxygens. The vector from A to B and its length
(the "magnitude") differ strongly between helices, strands and coil, which
is what secondary structure assignment builds on.

The Extractor is lazy: each call to Next slides the window by one residue
and updates the anchors with running sums instead of averaging the whole
window again.
*/
package cv

import (
	"fmt"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/pdb"
)

// Invalid is the magnitude of a CV whose window spans a chain break.
const Invalid = -1.0

// CV is one characteristic vector.
type CV struct {
	// position in the sequence of CVs of one structure
	Index int

	// position of the first residue of the window among the kept residues
	Start int

	Magnitude float64
	A, B      geom.Coords
	Residues  []pdb.ResidueID
	Valid     bool
}

// Vector returns B - A.
func (c CV) Vector() geom.Coords {
	return c.B.Sub(c.A)
}

func (c CV) String() string {
	if !c.Valid {
		return fmt.Sprintf("CV %d (invalid)", c.Index)
	}
	return fmt.Sprintf("CV %d (%s-%s, %0.3f)", c.Index,
		c.Residues[0], c.Residues[len(c.Residues)-1], c.Magnitude)
}

// Extractor produces the CVs of a list of residues one at a time.
type Extractor struct {
	conf     config.Extract
	residues []*pdb.Residue
	next     int

	kept   []*pdb.Residue
	breaks []bool

	// last atoms of the most recently kept residue
	lastC  geom.Coords
	window []backbone
	sumCA  geom.Coords
	sumO   geom.Coords
	nbreak int
	count  int
}

type backbone struct {
	id        pdb.ResidueID
	ca, o     geom.Coords
	breakFrom bool
}

// NewExtractor returns an extractor over the given residues, which should
// be in chain order. Residues are never modified.
func NewExtractor(residues []*pdb.Residue, conf config.Extract) *Extractor {
	if conf.Window < 2 {
		conf.Window = 2
	}
	return &Extractor{
		conf:     conf,
		residues: residues,
		window:   make([]backbone, 0, conf.Window),
	}
}

// Next returns the next CV. The second return value is false once the
// residues are exhausted.
func (ex *Extractor) Next() (CV, bool) {
	for ex.next < len(ex.residues) {
		r := ex.residues[ex.next]
		ex.next++

		bb, ok := ex.keep(r)
		if !ok {
			continue
		}
		ex.push(bb)
		if len(ex.window) < ex.conf.Window {
			continue
		}
		return ex.emit(), true
	}
	return CV{}, false
}

// keep checks whether a residue can contribute to a CV and records it.
func (ex *Extractor) keep(r *pdb.Residue) (backbone, bool) {
	n, okN := r.Atom("N")
	ca, okCA := r.Atom("CA")
	c, okC := r.Atom("C")
	o, okO := r.Atom("O")
	if !okN || !okCA || !okC || !okO {
		return backbone{}, false
	}
	if ca.Occupancy < ex.conf.MinOccupancy {
		return backbone{}, false
	}

	brk := false
	if len(ex.kept) > 0 {
		prev := ex.kept[len(ex.kept)-1]
		brk = prev.ID.Chain != r.ID.Chain || prev.ID.Model != r.ID.Model ||
			geom.Dist(ex.lastC, n.Coords) > ex.conf.MaxPeptideBond
	}
	ex.kept = append(ex.kept, r)
	ex.breaks = append(ex.breaks, brk)
	ex.lastC = c.Coords
	return backbone{id: r.ID, ca: ca.Coords, o: o.Coords, breakFrom: brk}, true
}

// push slides the window by one residue, keeping the anchor sums and the
// number of breaks inside the window current.
func (ex *Extractor) push(bb backbone) {
	if len(ex.window) == ex.conf.Window {
		out := ex.window[0]
		ex.sumCA = ex.sumCA.Sub(out.ca)
		ex.sumO = ex.sumO.Sub(out.o)
		copy(ex.window, ex.window[1:])
		ex.window = ex.window[:len(ex.window)-1]

		// The break between the outgoing residue and its successor leaves
		// the window too.
		if ex.window[0].breakFrom {
			ex.nbreak--
		}
	}
	if len(ex.window) > 0 && bb.breakFrom {
		ex.nbreak++
	}
	ex.window = append(ex.window, bb)
	ex.sumCA = ex.sumCA.Add(bb.ca)
	ex.sumO = ex.sumO.Add(bb.o)
}

func (ex *Extractor) emit() CV {
	k := float64(len(ex.window))
	cv := CV{
		Index:    ex.count,
		Start:    len(ex.kept) - len(ex.window),
		Residues: make([]pdb.ResidueID, len(ex.window)),
	}
	for i, bb := range ex.window {
		cv.Residues[i] = bb.id
	}
	ex.count++

	if ex.nbreak > 0 {
		cv.Magnitude = Invalid
		return cv
	}
	cv.A = ex.sumCA.Scale(1 / k)
	cv.B = ex.sumO.Scale(1 / k)
	cv.Magnitude = geom.Dist(cv.A, cv.B)
	cv.Valid = true
	return cv
}

// Kept returns the residues that passed the atom and occupancy checks so
// far, in order.
func (ex *Extractor) Kept() []*pdb.Residue {
	return ex.kept
}

// Breaks reports, for every kept residue, whether a chain break precedes
// it. The first kept residue never has one.
func (ex *Extractor) Breaks() []bool {
	return ex.breaks
}

// Extract drains a new extractor and returns all CVs.
func Extract(residues []*pdb.Residue, conf config.Extract) []CV {
	var cvs []CV
	ex := NewExtractor(residues, conf)
	for {
		cv, ok := ex.Next()
		if !ok {
			break
		}
		cvs = append(cvs, cv)
	}
	return cvs
}
