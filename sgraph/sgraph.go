/*
Package sgraph builds the structural graph of a classified protein.

Nodes are the helices and strands of one structure in chain order; there
is an edge between every pair of nodes. Edges carry raw geometric features
computed from the CVs of the two fragments. The graph is built once per
structure and is never modified afterwards, so any number of comparisons
may share it.
*/
package sgraph

import (
	"fmt"
	"math"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/cv"
	"github.com/BurntSushi/foldmatch/geom"
	"github.com/BurntSushi/foldmatch/ss"
)

// NumFeatures is the length of an edge feature vector.
const NumFeatures = 4

// Node is a helix or strand of the structure.
type Node struct {
	ID       int
	Fragment ss.Fragment
	CVs      []cv.CV
}

// Type returns the secondary structure of the node.
func (n Node) Type() ss.Type {
	return n.Fragment.Type
}

// Name is a short human readable name, e.g., "H3".
func (n Node) Name() string {
	return fmt.Sprintf("%c%d", n.Type().Letter(), n.ID)
}

// Edge relates two nodes.
type Edge struct {
	// From < To
	From, To int

	// mean angle between the CVs of the two fragments
	Angle float64

	// mean and minimum distance between CV midpoints
	Distance    float64
	MinDistance float64

	// mean angle between a CV and the direction to the other fragment's CV,
	// averaged over both directions
	AngleOfDistance float64

	// type pair, "HH", "HE" or "EE"
	Tag string

	// percentage of the two strands packing as a sheet (strand pairs only)
	SheetPacking float64
}

// Features returns the raw feature vector of the edge.
func (e Edge) Features() [NumFeatures]float64 {
	return [NumFeatures]float64{e.Angle, e.Distance, e.AngleOfDistance, e.MinDistance}
}

// Graph is the complete graph over the structured fragments of one
// structure.
type Graph struct {
	Name  string
	Nodes []Node

	// Edges holds every pair (i, j) with i < j at position pairIndex(i, j).
	Edges []Edge
}

// Build computes the structural graph of an assignment. Strand pairs are
// scored for sheet packing within conf.NeighborCutoff.
func Build(name string, a *ss.Assignment, conf config.Classify) *Graph {
	g := &Graph{Name: name}
	for _, f := range a.Structured() {
		n := Node{ID: len(g.Nodes), Fragment: f, CVs: make([]cv.CV, len(f.CVs))}
		for i, ci := range f.CVs {
			n.CVs[i] = a.CVs[ci]
		}
		g.Nodes = append(g.Nodes, n)
	}

	n := len(g.Nodes)
	g.Edges = make([]Edge, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.Edges[g.pairIndex(i, j)] = relate(g.Nodes[i], g.Nodes[j], conf.NeighborCutoff)
		}
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// pairIndex maps i < j to a position in Edges.
func (g *Graph) pairIndex(i, j int) int {
	n := len(g.Nodes)
	return i*n - i*(i+1)/2 + (j - i - 1)
}

// Edge returns the edge between nodes i and j in either order. It returns
// false when i == j or either node does not exist.
func (g *Graph) Edge(i, j int) (Edge, bool) {
	if i > j {
		i, j = j, i
	}
	if i == j || i < 0 || j >= len(g.Nodes) {
		return Edge{}, false
	}
	return g.Edges[g.pairIndex(i, j)], true
}

// Tag returns the canonical type pair tag of two types: helices first.
func Tag(a, b ss.Type) string {
	if a == ss.Strand && b == ss.Helix {
		a, b = b, a
	}
	return string([]byte{a.Letter(), b.Letter()})
}

func relate(a, b Node, cutoff float64) Edge {
	e := Edge{
		From:        a.ID,
		To:          b.ID,
		Tag:         Tag(a.Type(), b.Type()),
		MinDistance: math.Inf(1),
	}
	pairs := 0
	for _, c := range a.CVs {
		mc := midpoint(c)
		for _, d := range b.CVs {
			md := midpoint(d)
			dist := geom.Dist(mc, md)

			e.Angle += geom.Angle(c.Vector(), d.Vector())
			e.Distance += dist
			e.AngleOfDistance += (geom.Angle(c.Vector(), md.Sub(mc)) +
				geom.Angle(d.Vector(), mc.Sub(md))) / 2
			if dist < e.MinDistance {
				e.MinDistance = dist
			}
			pairs++
		}
	}
	if pairs == 0 {
		e.MinDistance = 0
		return e
	}
	e.Angle /= float64(pairs)
	e.Distance /= float64(pairs)
	e.AngleOfDistance /= float64(pairs)

	if a.Type() == ss.Strand && b.Type() == ss.Strand {
		e.SheetPacking = 100 * ss.Packing(a.CVs, b.CVs, cutoff)
	}
	return e
}

func midpoint(c cv.CV) geom.Coords {
	return geom.Midpoint(c.A, c.B)
}
