package ss

import (
	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/cv"
)

// Sheets groups the strand fragments into sheets and sets their Sheet
// field. Two strands are joined when their packing score reaches
// SheetPacking; joins are transitive. Sheet ids are assigned in fragment
// order, and strands that pack with nothing keep -1.
func Sheets(frags []Fragment, cvs []cv.CV, conf config.Classify) {
	var strands []int
	for i := range frags {
		frags[i].Sheet = -1
		if frags[i].Type == Strand {
			strands = append(strands, i)
		}
	}

	uf := newUnionFind(len(strands))
	for x := 0; x < len(strands); x++ {
		for y := x + 1; y < len(strands); y++ {
			a := fragmentCVs(frags[strands[x]], cvs)
			b := fragmentCVs(frags[strands[y]], cvs)
			if Packing(a, b, conf.NeighborCutoff) >= conf.SheetPacking {
				uf.union(x, y)
			}
		}
	}

	ids := make(map[int]int)
	for x, fi := range strands {
		root := uf.find(x)
		if uf.size[root] < 2 {
			continue
		}
		id, ok := ids[root]
		if !ok {
			id = len(ids)
			ids[root] = id
		}
		frags[fi].Sheet = id
	}
}

func fragmentCVs(f Fragment, cvs []cv.CV) []cv.CV {
	out := make([]cv.CV, len(f.CVs))
	for i, ci := range f.CVs {
		out[i] = cvs[ci]
	}
	return out
}

type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y int) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
}
