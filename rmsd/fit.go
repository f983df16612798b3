package rmsd

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/geom"
)

// Result is the outcome of an iteratively reweighted fit.
type Result struct {
	Transform

	// RMSD over the atoms kept by the last iteration, and over all atoms
	RMSD    float64
	RMSDAll float64

	Kept, Total int
	Iterations  int

	// Included reports, per atom pair, whether it was kept.
	Included []bool
}

// Fit superposes moving onto fixed while ignoring locally flexible parts:
// after every superposition the atoms deviating by more than CutoffSD
// standard deviations above the mean deviation of the kept atoms are
// dropped and the rest is fitted again. Dropped atoms are readmitted when
// they fall back under the cutoff. Iteration stops when the kept set no
// longer changes, when the RMSD changes by less than Tolerance, or after
// MaxIterations fits.
func Fit(fixed, moving []geom.Coords, conf config.Fit) (Result, error) {
	n := len(fixed)
	if len(moving) != n {
		panic("Fit requires two sets of atoms of equal length.")
	}
	included := make([]bool, n)
	for i := range included {
		included[i] = true
	}

	var res Result
	prev := math.Inf(1)
	for iter := 1; ; iter++ {
		fx, mv := subset(fixed, included), subset(moving, included)
		t, rms, err := Superpose(fx, mv)
		if err != nil {
			if iter == 1 {
				return Result{}, err
			}
			break
		}
		res = Result{
			Transform:  t,
			RMSD:       rms,
			RMSDAll:    Deviation(fixed, t.ApplyAll(moving)),
			Kept:       len(fx),
			Total:      n,
			Iterations: iter,
			Included:   append([]bool(nil), included...),
		}
		if iter >= conf.MaxIterations || math.Abs(prev-rms) < conf.Tolerance {
			break
		}
		prev = rms

		devs := make([]float64, n)
		var keptDevs []float64
		for i := range fixed {
			devs[i] = geom.Dist(fixed[i], t.Apply(moving[i]))
			if included[i] {
				keptDevs = append(keptDevs, devs[i])
			}
		}
		mean, sd := stat.MeanStdDev(keptDevs, nil)
		cutoff := math.Max(mean+conf.CutoffSD*sd, 1e-6)

		next := make([]bool, n)
		count, changed := 0, false
		for i, d := range devs {
			next[i] = d <= cutoff
			if next[i] {
				count++
			}
			if next[i] != included[i] {
				changed = true
			}
		}
		if !changed || count < 3 {
			break
		}
		included = next
	}
	return res, nil
}

func subset(cs []geom.Coords, included []bool) []geom.Coords {
	out := make([]geom.Coords, 0, len(cs))
	for i, c := range cs {
		if included[i] {
			out = append(out, c)
		}
	}
	return out
}
