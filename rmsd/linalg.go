package rmsd

import (
	"gonum.org/v1/gonum/mat"

	"github.com/BurntSushi/foldmatch/geom"
)

// Represents a 3x3 matrix, in row-major order
// | 0 1 2 |
// | 3 4 5 |
// | 6 7 8 |
type matrix3 [9]float64

var identity3 = matrix3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

func (a matrix3) mult(b matrix3) matrix3 {
	return matrix3{
		a[0]*b[0] + a[1]*b[3] + a[2]*b[6],
		a[0]*b[1] + a[1]*b[4] + a[2]*b[7],
		a[0]*b[2] + a[1]*b[5] + a[2]*b[8],

		a[3]*b[0] + a[4]*b[3] + a[5]*b[6],
		a[3]*b[1] + a[4]*b[4] + a[5]*b[7],
		a[3]*b[2] + a[4]*b[5] + a[5]*b[8],

		a[6]*b[0] + a[7]*b[3] + a[8]*b[6],
		a[6]*b[1] + a[7]*b[4] + a[8]*b[7],
		a[6]*b[2] + a[7]*b[5] + a[8]*b[8],
	}
}

func (a matrix3) transpose() matrix3 {
	return matrix3{
		a[0], a[3], a[6],
		a[1], a[4], a[7],
		a[2], a[5], a[8],
	}
}

func (a matrix3) det() float64 {
	// 048 + 156 + 237 - 246 - 138 - 057
	return a[0]*a[4]*a[8] +
		a[1]*a[5]*a[6] +
		a[2]*a[3]*a[7] -
		a[2]*a[4]*a[6] -
		a[1]*a[3]*a[8] -
		a[0]*a[5]*a[7]
}

func (a matrix3) apply(c geom.Coords) geom.Coords {
	return geom.Coords{
		X: a[0]*c.X + a[1]*c.Y + a[2]*c.Z,
		Y: a[3]*c.X + a[4]*c.Y + a[5]*c.Z,
		Z: a[6]*c.X + a[7]*c.Y + a[8]*c.Z,
	}
}

func fromDense(m *mat.Dense) matrix3 {
	var a matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			a[r*3+c] = m.At(r, c)
		}
	}
	return a
}

// covariance computes the 3x3 matrix sum_i p_i q_i^T of two centered sets
// of coordinates given as 3xN matrices.
func covariance(p, q *mat.Dense) *mat.Dense {
	var h mat.Dense
	h.Mul(p, q.T())
	return &h
}

// centered returns the 3xN matrix of coordinates with their centroid
// subtracted, along with the centroid.
func centered(coords []geom.Coords) (*mat.Dense, geom.Coords) {
	center := geom.Centroid(coords)
	m := mat.NewDense(3, len(coords), nil)
	for i, c := range coords {
		d := c.Sub(center)
		m.Set(0, i, d.X)
		m.Set(1, i, d.Y)
		m.Set(2, i, d.Z)
	}
	return m, center
}
