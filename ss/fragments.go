package ss

import (
	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/cv"
	"github.com/BurntSushi/foldmatch/pdb"
)

// span is a run of kept residues [start, end) with one label.
type span struct {
	typ        Type
	start, end int
}

func (s span) len() int {
	return s.end - s.start
}

func minLength(t Type, conf config.Classify) int {
	switch t {
	case Helix:
		return conf.MinHelixLength
	case Strand:
		return conf.MinStrandLength
	}
	return 0
}

// fragments turns the residue labels into fragments.
func (a *Assignment) fragments(conf config.Classify) []Fragment {
	spans := runs(a.Labels, a.Breaks)
	spans = a.repair(spans, conf)
	for i := range spans {
		if spans[i].len() < minLength(spans[i].typ, conf) {
			spans[i].typ = Coil
		}
	}
	spans = merge(spans, a.Breaks)

	frags := make([]Fragment, len(spans))
	for i, s := range spans {
		residues := a.Residues[s.start:s.end]
		frags[i] = Fragment{
			Index:    i,
			Type:     s.typ,
			Residues: residues,
			Sequence: pdb.Sequence(residues),
			CVs:      coveringCVs(a.CVs, s),
			Sheet:    -1,
			Start:    s.start,
		}
	}
	return frags
}

// runs splits the residues into maximal runs of equal labels. Runs never
// cross chain breaks.
func runs(labels []Type, breaks []bool) []span {
	var spans []span
	for r, t := range labels {
		if len(spans) > 0 {
			last := &spans[len(spans)-1]
			if last.typ == t && !breaks[r] {
				last.end++
				continue
			}
		}
		spans = append(spans, span{typ: t, start: r, end: r + 1})
	}
	return spans
}

// merge joins neighbouring spans of the same type that are not separated
// by a chain break and drops empty spans.
func merge(spans []span, breaks []bool) []span {
	var out []span
	for _, s := range spans {
		if s.len() == 0 {
			continue
		}
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.typ == s.typ && last.end == s.start && !breaks[s.start] {
				last.end = s.end
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// repair moves a glycine or proline sitting at the junction of two spans
// to the other span when that lets more helices and strands reach their
// minimum length without pushing any span that already did below it.
func (a *Assignment) repair(spans []span, conf config.Classify) []span {
	ok := func(s span) bool {
		return s.len() >= minLength(s.typ, conf) || s.typ == Coil
	}
	score := func(s span) int {
		if s.typ != Coil && s.len() >= minLength(s.typ, conf) {
			return 1
		}
		return 0
	}
	better := func(x, y, nx, ny span) bool {
		if (ok(x) && nx.len() > 0 && !ok(nx)) || (ok(y) && ny.len() > 0 && !ok(ny)) {
			return false
		}
		return score(nx)+score(ny) > score(x)+score(y)
	}

	for i := 0; i+1 < len(spans); i++ {
		x, y := spans[i], spans[i+1]
		if x.len() == 0 || y.len() == 0 || x.end != y.start || a.Breaks[y.start] {
			continue
		}
		if hinge(a.Residues[x.end-1]) {
			nx, ny := x, y
			nx.end--
			ny.start--
			if better(x, y, nx, ny) {
				spans[i], spans[i+1] = nx, ny
				continue
			}
		}
		if hinge(a.Residues[y.start]) {
			nx, ny := x, y
			nx.end++
			ny.start++
			if better(x, y, nx, ny) {
				spans[i], spans[i+1] = nx, ny
			}
		}
	}
	return merge(spans, a.Breaks)
}

func hinge(r *pdb.Residue) bool {
	one := r.OneLetter()
	return one == 'G' || one == 'P'
}

// coveringCVs returns the valid CVs whose windows lie inside the span. A
// span shorter than a window gets the valid CVs overlapping it instead.
func coveringCVs(cvs []cv.CV, s span) []int {
	var inside, overlap []int
	for i, c := range cvs {
		if !c.Valid {
			continue
		}
		end := c.Start + len(c.Residues)
		if c.Start >= s.start && end <= s.end {
			inside = append(inside, i)
		} else if c.Start < s.end && end > s.start {
			overlap = append(overlap, i)
		}
	}
	if len(inside) > 0 {
		return inside
	}
	return overlap
}
