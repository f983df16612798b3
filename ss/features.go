package ss

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/cv"
	"github.com/BurntSushi/foldmatch/geom"
)

// Feature describes one CV relative to its neighbours along the chain.
type Feature struct {
	Magnitude float64

	// mean angle (degrees) between this CV and its adjacent valid CVs
	Angle float64

	// mean distance between the A anchors of this CV and its neighbours
	Distance float64

	// mean angle between this CV and the anchor-to-anchor direction
	AngleOfDistance float64

	// number of adjacent valid CVs the averages were taken over
	Neighbors int
}

// Features computes the Feature of every CV. Invalid CVs and CVs without
// any valid neighbour get a zero Neighbors count.
func Features(cvs []cv.CV) []Feature {
	feats := make([]Feature, len(cvs))
	for i, c := range cvs {
		if !c.Valid {
			continue
		}
		var angles, dists, aods []float64
		if i > 0 && adjacent(cvs[i-1], c) {
			p := cvs[i-1]
			angles = append(angles, geom.Angle(c.Vector(), p.Vector()))
			dists = append(dists, geom.Dist(p.A, c.A))
			aods = append(aods, geom.Angle(c.Vector(), c.A.Sub(p.A)))
		}
		if i+1 < len(cvs) && adjacent(c, cvs[i+1]) {
			n := cvs[i+1]
			angles = append(angles, geom.Angle(c.Vector(), n.Vector()))
			dists = append(dists, geom.Dist(c.A, n.A))
			aods = append(aods, geom.Angle(c.Vector(), n.A.Sub(c.A)))
		}
		feats[i] = Feature{Magnitude: c.Magnitude, Neighbors: len(angles)}
		if len(angles) > 0 {
			k := float64(len(angles))
			feats[i].Angle = floats.Sum(angles) / k
			feats[i].Distance = floats.Sum(dists) / k
			feats[i].AngleOfDistance = floats.Sum(aods) / k
		}
	}
	return feats
}

// adjacent reports whether two valid CVs slide over consecutive windows.
func adjacent(a, b cv.CV) bool {
	return a.Valid && b.Valid && b.Start == a.Start+1
}

// reference is one feature of a reference model. Values within plateau of
// the mean cost nothing; beyond it the penalty grows quadratically in
// units of width.
type reference struct {
	mean, plateau, width float64
}

func (r reference) penalty(x float64) float64 {
	off := math.Abs(x-r.mean) - r.plateau
	if off <= 0 {
		return 0
	}
	return (off / r.width) * (off / r.width)
}

type model struct {
	magnitude, angle, distance, aod reference
}

var (
	helixModel = model{
		magnitude: reference{2.2, 0.3, 0.15},
		angle:     reference{20, 15, 10},
		distance:  reference{1.7, 0.4, 0.3},
		aod:       reference{23, 30, 20},
	}
	strandModel = model{
		magnitude: reference{1.4, 0.3, 0.15},
		angle:     reference{54, 15, 10},
		distance:  reference{3.4, 0.4, 0.3},
		aod:       reference{23, 30, 20},
	}
)

// penalty is the summed closeness penalty of a feature to the model.
func (m model) penalty(f Feature) float64 {
	return m.magnitude.penalty(f.Magnitude) +
		m.angle.penalty(f.Angle) +
		m.distance.penalty(f.Distance) +
		m.aod.penalty(f.AngleOfDistance)
}

// HelixPenalty and StrandPenalty expose the model penalties, mostly for
// reporting and tests.
func HelixPenalty(f Feature) float64  { return helixModel.penalty(f) }
func StrandPenalty(f Feature) float64 { return strandModel.penalty(f) }

// burial weights a 3-D neighbour of a CV by the angle (degrees, in 10
// degree bins) between the two CVs. Strand neighbours in a sheet lie close
// to parallel or antiparallel.
var burial = [18]float64{
	1.0, 0.95, 0.85, 0.7, 0.5, 0.35, 0.2, 0.1, 0.05,
	0.05, 0.1, 0.2, 0.35, 0.5, 0.7, 0.85, 0.95, 1.0,
}

// packing is the angle table used when scoring how well two strands pack
// into one sheet.
var packing = [18]float64{
	1.0, 1.0, 0.9, 0.75, 0.55, 0.35, 0.2, 0.1, 0.0,
	0.0, 0.1, 0.2, 0.35, 0.55, 0.75, 0.9, 1.0, 1.0,
}

func lookup(table *[18]float64, angle float64) float64 {
	bin := int(angle / 10)
	if bin < 0 {
		bin = 0
	}
	if bin > len(table)-1 {
		bin = len(table) - 1
	}
	return table[bin]
}

// Label assigns a secondary structure type to every CV.
//
// The first pass compares each CV's local features against the helix and
// strand models. The second pass looks again at CVs whose strand penalty
// is ambiguous (above the strand sensitivity but within AmbiguityFactor of
// it): they become strand when enough non-helical CVs elsewhere in the
// chain lie close by in space with a sheet-like orientation. Only coil is
// ever promoted; labels from the first pass are never taken back.
func Label(cvs []cv.CV, conf config.Classify) []Type {
	feats := Features(cvs)
	labels := make([]Type, len(cvs))
	strandPen := make([]float64, len(cvs))
	for i, f := range feats {
		labels[i] = Coil
		if f.Neighbors == 0 {
			continue
		}
		hp, sp := helixModel.penalty(f), strandModel.penalty(f)
		strandPen[i] = sp
		hok, sok := hp <= conf.HelixSensitivity, sp <= conf.StrandSensitivity
		switch {
		case hok && sok:
			if hp <= sp {
				labels[i] = Helix
			} else {
				labels[i] = Strand
			}
		case hok:
			labels[i] = Helix
		case sok:
			labels[i] = Strand
		}
	}

	limit := conf.AmbiguityFactor * conf.StrandSensitivity
	next := make([]Type, len(labels))
	copy(next, labels)
	for i := range cvs {
		if labels[i] != Coil || feats[i].Neighbors == 0 {
			continue
		}
		if strandPen[i] <= conf.StrandSensitivity || strandPen[i] > limit {
			continue
		}
		if support(cvs, labels, i, conf.NeighborCutoff) >= conf.StrandSupport {
			next[i] = Strand
		}
	}
	return next
}

// support sums the burial weights of the non-helical CVs within cutoff of
// CV i that are more than two residues away along the chain.
func support(cvs []cv.CV, labels []Type, i int, cutoff float64) float64 {
	c := cvs[i]
	sum := 0.0
	for j, o := range cvs {
		if !o.Valid || labels[j] == Helix {
			continue
		}
		if sep := o.Start - c.Start; sep >= -2 && sep <= 2 {
			continue
		}
		if geom.Dist(c.A, o.A) >= cutoff {
			continue
		}
		sum += lookup(&burial, geom.Angle(c.Vector(), o.Vector()))
	}
	return sum
}

// Packing scores how well two groups of CVs pack against each other as
// neighbouring strands of a sheet. For every CV the best partner in the
// other group (anchor distance below cutoff, weighted by the packing
// table) is found; the result is the mean of the two directed averages and
// lies in [0, 1].
func Packing(a, b []cv.CV, cutoff float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return (directedPacking(a, b, cutoff) + directedPacking(b, a, cutoff)) / 2
}

func directedPacking(from, to []cv.CV, cutoff float64) float64 {
	total := 0.0
	for _, c := range from {
		best := 0.0
		for _, o := range to {
			if geom.Dist(c.A, o.A) >= cutoff {
				continue
			}
			if w := lookup(&packing, geom.Angle(c.Vector(), o.Vector())); w > best {
				best = w
			}
		}
		total += best
	}
	return total / float64(len(from))
}
