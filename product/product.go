/*
Package product builds the compatibility graph of two structural graphs.

Each node of the product graph wraps one edge of either structural graph.
The edge feature vectors of both structures are scaled together so that
they are comparable, and every A edge is connected to every B edge whose
endpoint types agree by a cross edge weighted with the inverse of the
distance between their scaled vectors. There are no edges between two A
nodes or two B nodes.
*/
package product

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/sgraph"
)

// minDistance keeps the weight of identical feature vectors finite.
const minDistance = 1e-6

// Origin tells which structure a node comes from.
type Origin int

const (
	OriginA Origin = iota
	OriginB
)

func (o Origin) String() string {
	if o == OriginB {
		return "B"
	}
	return "A"
}

// Node wraps one structural graph edge.
type Node struct {
	Origin Origin

	// index of the edge in its graph's Edges and its endpoint node ids
	Edge     int
	From, To int
	Name     string
	Tag      string

	// jointly scaled feature vector
	Scaled [sgraph.NumFeatures]float64
}

// CrossEdge connects an A node to a B node.
type CrossEdge struct {
	// creation order; unique within a graph
	Index int

	// indices into Graph.Nodes
	A, B int

	// When false the A edge's From maps to the B edge's From (and To to
	// To). When true From maps to To and To to From.
	Swapped bool

	Distance  float64
	Euclidean float64
	Weight    float64
}

// Graph is the product graph of two structures.
type Graph struct {
	A, B  *sgraph.Graph
	Nodes []Node

	// Nodes[:NumA] come from A, the rest from B.
	NumA int

	// Cross is sorted by increasing distance.
	Cross []CrossEdge
}

// FragmentPairs returns the two node correspondences (A node id, B node
// id) implied by a cross edge.
func (g *Graph) FragmentPairs(c CrossEdge) [2][2]int {
	a, b := g.Nodes[c.A], g.Nodes[c.B]
	if c.Swapped {
		return [2][2]int{{a.From, b.To}, {a.To, b.From}}
	}
	return [2][2]int{{a.From, b.From}, {a.To, b.To}}
}

// Build computes the product graph of a and b. In self mode (a and b are
// the same structure) cross edges between an edge and itself are not
// created.
func Build(a, b *sgraph.Graph, conf config.Product, self bool) (*Graph, error) {
	forbidden := make(map[[2]string]bool)
	for _, r := range conf.Restrict {
		ta, tb, err := config.ParseRestriction(r)
		if err != nil {
			return nil, err
		}
		forbidden[[2]string{ta, tb}] = true
	}

	g := &Graph{A: a, B: b, NumA: len(a.Edges)}
	for origin, sg := range []*sgraph.Graph{a, b} {
		for i, e := range sg.Edges {
			g.Nodes = append(g.Nodes, Node{
				Origin: Origin(origin),
				Edge:   i,
				From:   e.From,
				To:     e.To,
				Name: fmt.Sprintf("%s:%s-%s", Origin(origin),
					sg.Nodes[e.From].Name(), sg.Nodes[e.To].Name()),
				Tag: e.Tag,
			})
		}
	}
	if err := g.scale(conf.Scaling); err != nil {
		return nil, err
	}

	for ia := 0; ia < g.NumA; ia++ {
		na := g.Nodes[ia]
		for ib := g.NumA; ib < len(g.Nodes); ib++ {
			nb := g.Nodes[ib]
			if forbidden[[2]string{na.Tag, nb.Tag}] {
				continue
			}
			if self && na.Edge == nb.Edge {
				continue
			}
			euclid := euclidean(na.Scaled[:], nb.Scaled[:])
			dist := euclid
			if conf.Metric != "euclidean" {
				dist = correlationDistance(na.Scaled[:], nb.Scaled[:], euclid)
			}
			for _, swapped := range []bool{false, true} {
				if !g.typesAgree(na, nb, swapped) {
					continue
				}
				g.Cross = append(g.Cross, CrossEdge{
					Index:     len(g.Cross),
					A:         ia,
					B:         ib,
					Swapped:   swapped,
					Distance:  dist,
					Euclidean: euclid,
					Weight:    1 / math.Max(dist, minDistance),
				})
			}
		}
	}
	sort.Slice(g.Cross, func(i, j int) bool {
		ci, cj := g.Cross[i], g.Cross[j]
		if ci.Distance != cj.Distance {
			return ci.Distance < cj.Distance
		}
		if ci.Euclidean != cj.Euclidean {
			return ci.Euclidean < cj.Euclidean
		}
		return ci.Index < cj.Index
	})
	return g, nil
}

func (g *Graph) typesAgree(na, nb Node, swapped bool) bool {
	af, at := g.A.Nodes[na.From].Type(), g.A.Nodes[na.To].Type()
	bf, bt := g.B.Nodes[nb.From].Type(), g.B.Nodes[nb.To].Type()
	if swapped {
		bf, bt = bt, bf
	}
	return af == bf && at == bt
}

// scale fills in the Scaled vectors of all nodes, feature by feature, over
// the edges of both structures together.
func (g *Graph) scale(mode string) error {
	if len(g.Nodes) == 0 {
		return nil
	}
	raw := make([][sgraph.NumFeatures]float64, len(g.Nodes))
	for i, n := range g.Nodes {
		sg := g.A
		if n.Origin == OriginB {
			sg = g.B
		}
		raw[i] = sg.Edges[n.Edge].Features()
	}

	column := make([]float64, len(g.Nodes))
	for f := 0; f < sgraph.NumFeatures; f++ {
		for i := range raw {
			column[i] = raw[i][f]
		}
		var center, spread float64
		switch mode {
		case "", "minmax":
			center = floats.Min(column)
			spread = floats.Max(column) - center
		case "robust":
			sorted := make([]float64, len(column))
			copy(sorted, column)
			sort.Float64s(sorted)
			center = stat.Quantile(0.5, stat.Empirical, sorted, nil)
			spread = stat.Quantile(0.75, stat.Empirical, sorted, nil) -
				stat.Quantile(0.25, stat.Empirical, sorted, nil)
		default:
			return fmt.Errorf("unknown scaling mode '%s'", mode)
		}
		if spread == 0 {
			spread = 1
		}
		for i := range g.Nodes {
			g.Nodes[i].Scaled[f] = (raw[i][f] - center) / spread
		}
	}
	return nil
}

// euclidean is the Euclidean distance normalized by the square root of the
// dimension.
func euclidean(u, v []float64) float64 {
	return floats.Distance(u, v, 2) / math.Sqrt(float64(len(u)))
}

// correlationDistance is 1 - pearson(u, v), clamped to [0, 2]. Pearson
// correlation is not defined when either vector is constant, and then the
// (normalized) Euclidean distance is used instead.
func correlationDistance(u, v []float64, euclid float64) float64 {
	if floats.Max(u) == floats.Min(u) || floats.Max(v) == floats.Min(v) {
		return euclid
	}
	r := stat.Correlation(u, v, nil)
	if math.IsNaN(r) {
		return euclid
	}
	return math.Max(0, math.Min(2, 1-r))
}
