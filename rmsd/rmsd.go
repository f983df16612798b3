package rmsd

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/pdb"
)

var (
	// ErrTooFewAtoms is returned when fewer than three atom pairs are
	// available for a superposition.
	ErrTooFewAtoms = errors.New("too few atoms to superpose")

	// ErrDegenerate is returned when the atoms carry no orientation, e.g.,
	// when they all sit on one point, or the SVD fails.
	ErrDegenerate = errors.New("degenerate atom set")
)

// Transform is a rigid body motion: x -> Rotation * x + Translation.
type Transform struct {
	// row-major 3x3 rotation matrix
	Rotation    [9]float64
	Translation geom.Coords
}

// Identity returns the transform that moves nothing.
func Identity() Transform {
	return Transform{Rotation: identity3}
}

// Apply moves a single point.
func (t Transform) Apply(c geom.Coords) geom.Coords {
	return matrix3(t.Rotation).apply(c).Add(t.Translation)
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	rt := matrix3(t.Rotation).transpose()
	return Transform{
		Rotation:    rt,
		Translation: rt.apply(t.Translation).Scale(-1),
	}
}

// Then returns the transform that applies t first and then u.
func (t Transform) Then(u Transform) Transform {
	r := matrix3(u.Rotation).mult(matrix3(t.Rotation))
	return Transform{
		Rotation:    r,
		Translation: matrix3(u.Rotation).apply(t.Translation).Add(u.Translation),
	}
}

// ApplyAll returns moved copies of the points.
func (t Transform) ApplyAll(cs []geom.Coords) []geom.Coords {
	out := make([]geom.Coords, len(cs))
	for i, c := range cs {
		out[i] = t.Apply(c)
	}
	return out
}

// ApplyResidues returns moved deep copies of the residues.
func (t Transform) ApplyResidues(residues []*pdb.Residue) []*pdb.Residue {
	return pdb.MapResidues(residues, t.Apply)
}

// ApplyEntry returns a moved deep copy of a whole entry, ready to be
// written out.
func (t Transform) ApplyEntry(e *pdb.Entry) *pdb.Entry {
	return e.Map(t.Apply)
}

func (t Transform) String() string {
	r := t.Rotation
	return fmt.Sprintf("R = [%0.4f %0.4f %0.4f; %0.4f %0.4f %0.4f; "+
		"%0.4f %0.4f %0.4f], T = %s",
		r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8], t.Translation)
}

// Superpose implements the Kabsch algorithm. It returns the rotation and
// translation that minimize the RMSD between fixed and the moved copy of
// moving, and that RMSD.
//
// A brief, high-level overview:
//
// Center both sets of points on their centroids, giving 3xN matrices P
// (moving) and Q (fixed).
//
// Compute the covariance matrix H = P(Q^T) and its SVD H = US(V^T).
//
// Compute d = sign(det(V(U^T))).
//
// The optimal rotation is R = V([1 0 0] [0 1 0] [0 0 d])(U^T). The
// correction by d turns a reflection into a proper rotation.
//
// Superpose panics if the lengths of fixed and moving differ.
func Superpose(fixed, moving []geom.Coords) (Transform, float64, error) {
	if len(fixed) != len(moving) {
		panic(fmt.Sprintf("Superposing two sets of atoms requires that "+
			"they have equal length. But the lengths provided are %d and %d.",
			len(fixed), len(moving)))
	}
	if len(fixed) < 3 {
		return Transform{}, 0, ErrTooFewAtoms
	}

	q, cq := centered(fixed)
	p, cp := centered(moving)
	if spread(p) < 1e-12 || spread(q) < 1e-12 {
		return Transform{}, 0, ErrDegenerate
	}

	var svd mat.SVD
	if ok := svd.Factorize(covariance(p, q), mat.SVDFull); !ok {
		return Transform{}, 0, ErrDegenerate
	}
	var du, dv mat.Dense
	svd.UTo(&du)
	svd.VTo(&dv)
	u, v := fromDense(&du), fromDense(&dv)

	ut := u.transpose()
	if v.mult(ut).det() < 0 {
		adjust := matrix3{
			1, 0, 0,
			0, 1, 0,
			0, 0, -1,
		}
		v = v.mult(adjust)
	}
	r := v.mult(ut)

	t := Transform{Rotation: r, Translation: cq.Sub(r.apply(cp))}
	return t, Deviation(fixed, t.ApplyAll(moving)), nil
}

// spread is the Frobenius norm of a centered 3xN matrix.
func spread(m *mat.Dense) float64 {
	return mat.Norm(m, 2)
}

// Deviation is the root mean square distance between corresponding points
// without any superposition.
func Deviation(a, b []geom.Coords) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("Deviation requires equal lengths, got %d and %d.",
			len(a), len(b)))
	}
	if len(a) == 0 {
		return 0
	}
	sum := 0.0
	for i := range a {
		d := a[i].Sub(b[i])
		sum += d.Dot(d)
	}
	return math.Sqrt(sum / float64(len(a)))
}
