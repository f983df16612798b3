package rmsd

import (
	"fmt"
	"math"

	"github.com/TuftsBCB/structure"

	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/pdb"
)

// Window selects Length residues starting at StartA in one group and at
// StartB in the corresponding group of the other structure.
type Window struct {
	StartA, StartB, Length int
}

// TrimResult is the best set of windows found by TrimFit.
type TrimResult struct {
	Windows []Window

	// CA RMSD over all windows
	RMSD float64
}

// trimTolerance is well above the rounding noise of a CA RMSD near zero.
const trimTolerance = 1e-5

// TrimFit refines residue windows over a known correspondence of residue
// groups (typically matched fragments) without any graph search. For every
// group it brute forces register shifts (moving the B window relative to
// the A window) and slides (moving both) of up to maxShift[i] residues,
// keeping whatever minimizes the CA RMSD over all groups together. RMSDs
// within trimTolerance of each other are ties, and a tie goes to the longer
// window. Windows are clipped to their groups and never shrink below three
// residues or by more than maxShift[i]. Groups are visited in order, twice.
func TrimFit(
	groupsA, groupsB [][]*pdb.Residue,
	init []Window,
	maxShift []int,
) (TrimResult, error) {
	if len(groupsA) != len(groupsB) || len(groupsA) != len(init) ||
		len(init) != len(maxShift) {
		return TrimResult{}, fmt.Errorf("TrimFit needs one window and one " +
			"shift bound per group pair.")
	}
	cur := append([]Window(nil), init...)
	best, err := windowRMSD(groupsA, groupsB, cur)
	if err != nil {
		return TrimResult{}, err
	}

	for sweep := 0; sweep < 2; sweep++ {
		for g := range cur {
			orig := cur[g]
			bestWin := orig
			for slide := -maxShift[g]; slide <= maxShift[g]; slide++ {
				for shift := -maxShift[g]; shift <= maxShift[g]; shift++ {
					w, ok := clip(Window{
						StartA: init[g].StartA + slide,
						StartB: init[g].StartB + slide + shift,
						Length: init[g].Length,
					}, len(groupsA[g]), len(groupsB[g]))
					if !ok || w.Length < init[g].Length-maxShift[g] {
						continue
					}
					cur[g] = w
					rms, err := windowRMSD(groupsA, groupsB, cur)
					if err != nil {
						continue
					}
					longer := w.Length > bestWin.Length
					if rms < best-trimTolerance || (longer && rms <= best+trimTolerance) {
						best, bestWin = rms, w
					}
				}
			}
			cur[g] = bestWin
		}
	}
	return TrimResult{Windows: cur, RMSD: best}, nil
}

// clip shrinks a window so that it fits both groups.
func clip(w Window, lenA, lenB int) (Window, bool) {
	if w.StartA < 0 {
		w.Length += w.StartA
		w.StartB -= w.StartA
		w.StartA = 0
	}
	if w.StartB < 0 {
		w.Length += w.StartB
		w.StartA -= w.StartB
		w.StartB = 0
	}
	w.Length = minInt(w.Length, minInt(lenA-w.StartA, lenB-w.StartB))
	return w, w.Length >= 3
}

// windowRMSD computes the CA RMSD of the windowed correspondence.
func windowRMSD(groupsA, groupsB [][]*pdb.Residue, ws []Window) (float64, error) {
	var a, b []structure.Coords
	for g, w := range ws {
		for i := 0; i < w.Length; i++ {
			ca, okA := groupsA[g][w.StartA+i].Atom("CA")
			cb, okB := groupsB[g][w.StartB+i].Atom("CA")
			if okA && okB {
				a = append(a, tufts(ca.Coords))
				b = append(b, tufts(cb.Coords))
			}
		}
	}
	if len(a) < 3 {
		return 0, ErrTooFewAtoms
	}
	rms := structure.RMSD(a, b)
	if math.IsNaN(rms) {
		return 0, ErrDegenerate
	}
	return rms, nil
}

func tufts(c geom.Coords) structure.Coords {
	return structure.Coords{X: c.X, Y: c.Y, Z: c.Z}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
