/*
Package ss assigns secondary structure to a protein backbone and cuts it
into fragments.

Classification works on characteristic vectors (see package cv): each CV is
labeled helix, strand or coil, every residue takes the majority label of the
CVs covering it and maximal runs of equally labeled residues become
fragments. Fragments that are too short to be trusted are demoted to coil,
glycine and proline residues at fragment junctions may move to whichever
side keeps both fragments long enough, and strands that pack against each
other are grouped into sheets.
*/
package ss

import (
	"fmt"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/cv"
	"github.com/BurntSushi/foldmatch/pdb"
)

// Type is a secondary structure label.
type Type int

const (
	Coil Type = iota
	Helix
	Strand
)

func (t Type) String() string {
	switch t {
	case Helix:
		return "helix"
	case Strand:
		return "strand"
	}
	return "coil"
}

// Letter returns the DSSP-like one letter code: H, E or C.
func (t Type) Letter() byte {
	switch t {
	case Helix:
		return 'H'
	case Strand:
		return 'E'
	}
	return 'C'
}

// Fragment is a maximal run of consecutive residues sharing one label.
type Fragment struct {
	Index    int
	Type     Type
	Residues []*pdb.Residue
	Sequence string

	// indices into Assignment.CVs of the valid CVs describing the fragment
	CVs []int

	// sheet id of a strand, or -1
	Sheet int

	// position of the first residue among Assignment.Residues
	Start int
}

// Len returns the number of residues in the fragment.
func (f Fragment) Len() int {
	return len(f.Residues)
}

// Structured reports whether the fragment is a helix or a strand.
func (f Fragment) Structured() bool {
	return f.Type == Helix || f.Type == Strand
}

func (f Fragment) String() string {
	first, last := f.Residues[0].ID, f.Residues[len(f.Residues)-1].ID
	return fmt.Sprintf("%s %d (%s-%s)", f.Type, f.Index, first, last)
}

// Assignment is the full secondary structure assignment of one structure.
type Assignment struct {
	CVs []cv.CV

	// residues kept by the extractor, their labels and whether a chain
	// break precedes each of them
	Residues []*pdb.Residue
	Labels   []Type
	Breaks   []bool

	// Fragments partition Residues in order.
	Fragments []Fragment
}

// Structured returns the helix and strand fragments in order.
func (a *Assignment) Structured() []Fragment {
	var frags []Fragment
	for _, f := range a.Fragments {
		if f.Structured() {
			frags = append(frags, f)
		}
	}
	return frags
}

// Classify extracts the CVs of the residues and assigns secondary
// structure.
func Classify(residues []*pdb.Residue, conf config.Config) *Assignment {
	ex := cv.NewExtractor(residues, conf.Extract)
	var cvs []cv.CV
	for {
		c, ok := ex.Next()
		if !ok {
			break
		}
		cvs = append(cvs, c)
	}
	a := &Assignment{
		CVs:      cvs,
		Residues: ex.Kept(),
		Breaks:   ex.Breaks(),
	}
	a.Labels = residueLabels(len(a.Residues), cvs, Label(cvs, conf.Classify))
	a.Fragments = a.fragments(conf.Classify)
	Sheets(a.Fragments, cvs, conf.Classify)
	return a
}

// residueLabels gives every residue the majority label of the valid CVs
// whose window covers it. Ties prefer helix, then strand.
func residueLabels(n int, cvs []cv.CV, cvLabels []Type) []Type {
	votes := make([][3]int, n)
	for i, c := range cvs {
		if !c.Valid {
			continue
		}
		for r := c.Start; r < c.Start+len(c.Residues) && r < n; r++ {
			votes[r][cvLabels[i]]++
		}
	}
	labels := make([]Type, n)
	for r, v := range votes {
		best := Coil
		if v[Helix] > 0 && v[Helix] >= v[Strand] && v[Helix] >= v[Coil] {
			best = Helix
		} else if v[Strand] > 0 && v[Strand] >= v[Coil] {
			best = Strand
		}
		labels[r] = best
	}
	return labels
}
