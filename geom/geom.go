/*
Package geom is the three dimensional vector arithmetic shared by the
descriptor extractor, the classifier, the graph builders and the
superposition code.

Coords is gonum's r3.Vec with methods, so values convert to and from r3
for free and all of the arithmetic is r3's.
*/
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Coords is a point (or a vector) in three dimensional space, in Angstroms.
type Coords r3.Vec

// Vec returns c as an r3.Vec.
func (c Coords) Vec() r3.Vec {
	return r3.Vec(c)
}

// String returns the coordinates with three decimal places, as they would
// appear in a PDB file.
func (c Coords) String() string {
	return fmt.Sprintf("(%0.3f, %0.3f, %0.3f)", c.X, c.Y, c.Z)
}

func (c Coords) Add(o Coords) Coords {
	return Coords(r3.Add(c.Vec(), o.Vec()))
}

func (c Coords) Sub(o Coords) Coords {
	return Coords(r3.Sub(c.Vec(), o.Vec()))
}

func (c Coords) Scale(s float64) Coords {
	return Coords(r3.Scale(s, c.Vec()))
}

func (c Coords) Dot(o Coords) float64 {
	return r3.Dot(c.Vec(), o.Vec())
}

func (c Coords) Cross(o Coords) Coords {
	return Coords(r3.Cross(c.Vec(), o.Vec()))
}

// Norm returns the Euclidean length of c.
func (c Coords) Norm() float64 {
	return r3.Norm(c.Vec())
}

// Unit returns c scaled to length 1. The zero vector is returned unchanged.
func (c Coords) Unit() Coords {
	if c == (Coords{}) {
		return c
	}
	return Coords(r3.Unit(c.Vec()))
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Coords) float64 {
	return r3.Norm(r3.Sub(a.Vec(), b.Vec()))
}

// Angle returns the angle between two vectors in degrees, in [0, 180].
// If either vector has zero length, the angle is 0.
func Angle(a, b Coords) float64 {
	if a == (Coords{}) || b == (Coords{}) {
		return 0
	}
	cos := math.Max(-1, math.Min(1, r3.Cos(a.Vec(), b.Vec())))
	return math.Acos(cos) * 180 / math.Pi
}

// Centroid returns the average position of a set of points. The centroid
// of an empty set is the origin.
func Centroid(cs []Coords) Coords {
	var sum r3.Vec
	if len(cs) == 0 {
		return Coords(sum)
	}
	for _, c := range cs {
		sum = r3.Add(sum, c.Vec())
	}
	return Coords(r3.Scale(1/float64(len(cs)), sum))
}

// Midpoint returns the point half way between a and b.
func Midpoint(a, b Coords) Coords {
	return Coords(r3.Scale(0.5, r3.Add(a.Vec(), b.Vec())))
}
