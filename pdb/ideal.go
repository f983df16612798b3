package pdb

import (
	"math"

	"github.com/BurntSushi/foldmatch/geom"
)

// Cylindrical coordinates (radius, phase in degrees relative to CA, rise
// relative to CA) of the backbone atoms of an ideal alpha helix whose axis
// is the z axis.
var helixAtoms = []struct {
	name, element string
	radius, phase float64
	dz            float64
}{
	{"N", "N", 1.569, -26.67, -0.913},
	{"CA", "C", 2.294, 0, 0},
	{"C", "C", 1.688, 26.72, 1.064},
	{"O", "O", 1.949, 20.45, 2.250},
}

const (
	helixTurn = 98.74 // degrees per residue
	helixRise = 1.542 // Angstroms per residue
)

// Ideal backbone bond lengths (Angstroms) and bond angles (degrees).
const (
	bondNCA = 1.458
	bondCAC = 1.525
	bondCN  = 1.329
	bondCO  = 1.231

	angNCAC = 111.2
	angCACN = 116.2
	angCNCA = 121.7
	angCACO = 120.5
)

// IdealHelix builds the backbone (N, CA, C, O) of an ideal alpha helix with
// the given one letter sequence. The helix axis is the z axis, the first CA
// sits at (2.294, 0, 0) and the chain runs towards +z.
func IdealHelix(chain byte, start int, sequence string) []*Residue {
	residues := make([]*Residue, len(sequence))
	for i := range sequence {
		r := newIdealResidue(chain, start+i, sequence[i])
		for _, a := range helixAtoms {
			t := (float64(i)*helixTurn + a.phase) * math.Pi / 180
			r.Atoms = append(r.Atoms, idealAtom(a.name, a.element, geom.Coords{
				X: a.radius * math.Cos(t),
				Y: a.radius * math.Sin(t),
				Z: float64(i)*helixRise + a.dz,
			}))
		}
		residues[i] = r
	}
	return residues
}

// IdealStrand builds the backbone of an extended beta strand with the given
// sequence using standard bond geometry and (phi, psi) = (-139, 135).
func IdealStrand(chain byte, start int, sequence string) []*Residue {
	phis := make([]float64, len(sequence))
	psis := make([]float64, len(sequence))
	for i := range sequence {
		phis[i], psis[i] = -139, 135
	}
	return Build(chain, start, sequence, phis, psis)
}

// Build places backbone atoms residue by residue from backbone dihedral
// angles (in degrees) with ideal bond lengths and angles. The peptide bonds
// are trans. The first N sits at the origin and the first CA on the +x axis.
func Build(chain byte, start int, sequence string, phis, psis []float64) []*Residue {
	if len(phis) != len(sequence) || len(psis) != len(sequence) {
		panic("Build needs one (phi, psi) pair per residue.")
	}
	n := geom.Coords{}
	ca := geom.Coords{X: bondNCA}
	c := place(geom.Coords{Y: 1}, n, ca, bondCAC, angNCAC, -60)

	residues := make([]*Residue, len(sequence))
	for i := range sequence {
		r := newIdealResidue(chain, start+i, sequence[i])
		o := place(n, ca, c, bondCO, angCACO, psis[i]+180)
		r.Atoms = append(r.Atoms,
			idealAtom("N", "N", n), idealAtom("CA", "C", ca),
			idealAtom("C", "C", c), idealAtom("O", "O", o))
		residues[i] = r

		nextPhi := -60.0
		if i+1 < len(sequence) {
			nextPhi = phis[i+1]
		}
		nn := place(n, ca, c, bondCN, angCACN, psis[i])
		nca := place(ca, c, nn, bondNCA, angCNCA, 180)
		nc := place(c, nn, nca, bondCAC, angNCAC, nextPhi)
		n, ca, c = nn, nca, nc
	}
	return residues
}

// place returns the point d such that |cd| = bond, the angle b-c-d is angle
// and the dihedral a-b-c-d is torsion (angles in degrees).
func place(a, b, c geom.Coords, bond, angle, torsion float64) geom.Coords {
	angle *= math.Pi / 180
	torsion *= math.Pi / 180
	bc := c.Sub(b).Unit()
	nrm := b.Sub(a).Cross(bc).Unit()
	m := nrm.Cross(bc)
	d := bc.Scale(-bond * math.Cos(angle)).
		Add(m.Scale(bond * math.Sin(angle) * math.Cos(torsion))).
		Add(nrm.Scale(bond * math.Sin(angle) * math.Sin(torsion)))
	return c.Add(d)
}

func newIdealResidue(chain byte, seq int, one byte) *Residue {
	name, ok := AminoOneToThree[one]
	if !ok {
		name = "ALA"
	}
	return &Residue{
		ID:   ResidueID{Model: 1, Chain: chain, Seq: seq, ICode: ' '},
		Name: name,
	}
}

func idealAtom(name, element string, c geom.Coords) Atom {
	return Atom{Name: name, Element: element, Occupancy: 1, Coords: c}
}
