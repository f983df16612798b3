package rmsd

import (
	"fmt"

	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/pdb"
)

var backboneAtoms = []string{"N", "CA", "C", "O"}

// Backbone collects the backbone atoms (N, CA, C, O and, if withCB is set,
// CB) of two equally long lists of residues. An atom is used only when
// both residues of a pair have it, so the returned slices always have
// equal length.
//
// An error is returned if the residue lists have different lengths.
func Backbone(
	residuesA, residuesB []*pdb.Residue,
	withCB bool,
) ([]geom.Coords, []geom.Coords, error) {
	if len(residuesA) != len(residuesB) {
		return nil, nil, fmt.Errorf("Cannot pair %d residues with %d residues.",
			len(residuesA), len(residuesB))
	}
	names := backboneAtoms
	if withCB {
		names = append(append([]string(nil), backboneAtoms...), "CB")
	}

	a := make([]geom.Coords, 0, len(names)*len(residuesA))
	b := make([]geom.Coords, 0, len(names)*len(residuesB))
	for i := range residuesA {
		for _, name := range names {
			atomA, okA := residuesA[i].Atom(name)
			atomB, okB := residuesB[i].Atom(name)
			if okA && okB {
				a = append(a, atomA.Coords)
				b = append(b, atomB.Coords)
			}
		}
	}
	return a, b, nil
}

// CA returns the CA coordinates of the residues that have one.
func CA(residues []*pdb.Residue) []geom.Coords {
	cas := make([]geom.Coords, 0, len(residues))
	for _, r := range residues {
		if ca, ok := r.Atom("CA"); ok {
			cas = append(cas, ca.Coords)
		}
	}
	return cas
}

// CoreResidues reports, for every reference residue, whether its CA lies
// within tol Angstroms of some CA of the other structure after that
// structure has been moved by t.
func CoreResidues(
	reference, other []*pdb.Residue,
	t Transform,
	tol float64,
) []bool {
	moved := t.ApplyAll(CA(other))
	core := make([]bool, len(reference))
	for i, r := range reference {
		ca, ok := r.Atom("CA")
		if !ok {
			continue
		}
		for _, m := range moved {
			if geom.Dist(ca.Coords, m) <= tol {
				core[i] = true
				break
			}
		}
	}
	return core
}

// CorePercentage is the percentage of reference fragments of which at
// least half of the residues belong to the core (see CoreResidues).
func CorePercentage(
	fragments [][]*pdb.Residue,
	other []*pdb.Residue,
	t Transform,
	tol float64,
) float64 {
	if len(fragments) == 0 {
		return 0
	}
	covered := 0
	for _, frag := range fragments {
		in := 0
		for _, c := range CoreResidues(frag, other, t, tol) {
			if c {
				in++
			}
		}
		if len(frag) > 0 && 2*in >= len(frag) {
			covered++
		}
	}
	return 100 * float64(covered) / float64(len(fragments))
}
