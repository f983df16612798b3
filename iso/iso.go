/*
Package iso implements labeled subgraph isomorphism over two graphs whose
vertices are plain integers.

What makes two vertices, or two pairs of vertices, compatible is not known
to this package: a Matcher is built from a vertex predicate and an edge
predicate, and every consistency question is answered through those two
functions. A mapping is consistent when it is injective in both directions,
every mapped vertex pair satisfies the vertex predicate and every two
mapped pairs satisfy the edge predicate.
*/
package iso

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultMaxSteps bounds Grow when Matcher.MaxSteps is zero.
const DefaultMaxSteps = 10000

// Pair maps vertex A of the first graph to vertex B of the second.
type Pair struct {
	A, B int
}

// Mapping is a partial vertex correspondence, in the order it was built.
type Mapping []Pair

// Copy returns a mapping that shares no memory with m.
func (m Mapping) Copy() Mapping {
	cp := make(Mapping, len(m), len(m)+1)
	copy(cp, m)
	return cp
}

// Has reports whether either vertex of p is already mapped.
func (m Mapping) Has(p Pair) bool {
	for _, q := range m {
		if q.A == p.A || q.B == p.B {
			return true
		}
	}
	return false
}

func (m Mapping) String() string {
	pieces := make([]string, len(m))
	for i, p := range m {
		pieces[i] = fmt.Sprintf("%d->%d", p.A, p.B)
	}
	return "{" + strings.Join(pieces, ", ") + "}"
}

// Matcher answers consistency questions through two predicates.
type Matcher struct {
	// Vertex reports whether vertex a may map to vertex b.
	Vertex func(a, b int) bool

	// Edge reports whether the relation between a1 and a2 in the first
	// graph is compatible with the relation between b1 and b2 in the
	// second.
	Edge func(a1, a2, b1, b2 int) bool

	// MaxSteps bounds the number of search steps in Grow.
	MaxSteps int
}

// CanExtend reports whether adding p to the consistent mapping m keeps it
// consistent.
func (mt *Matcher) CanExtend(m Mapping, p Pair) bool {
	if m.Has(p) {
		return false
	}
	if mt.Vertex != nil && !mt.Vertex(p.A, p.B) {
		return false
	}
	if mt.Edge != nil {
		for _, q := range m {
			if !mt.Edge(q.A, p.A, q.B, p.B) {
				return false
			}
		}
	}
	return true
}

// Check reports whether a whole mapping is consistent.
func (mt *Matcher) Check(m Mapping) bool {
	for i := range m {
		if !mt.CanExtend(m[:i], m[i]) {
			return false
		}
	}
	return true
}

// Grow searches for maximal consistent extensions of seed using the
// candidate pairs, which are tried in order. At most limit mappings are
// returned, largest first; ties keep discovery order. The search keeps an
// explicit stack in which every frame owns its copy of the mapping.
func (mt *Matcher) Grow(seed Mapping, candidates []Pair, limit int) []Mapping {
	if limit <= 0 || !mt.Check(seed) {
		return nil
	}
	maxSteps := mt.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	type frame struct {
		mapping  Mapping
		next     int
		extended bool
	}
	stack := []frame{{mapping: seed.Copy()}}
	var found []Mapping
	for steps := 0; len(stack) > 0 && len(found) < limit && steps < maxSteps; steps++ {
		top := len(stack) - 1
		child := -1
		for stack[top].next < len(candidates) {
			i := stack[top].next
			stack[top].next++
			if mt.CanExtend(stack[top].mapping, candidates[i]) {
				child = i
				break
			}
		}
		if child >= 0 {
			stack[top].extended = true
			m := append(stack[top].mapping.Copy(), candidates[child])
			stack = append(stack, frame{mapping: m, next: child + 1})
			continue
		}

		f := stack[top]
		stack = stack[:top]
		if !f.extended && mt.maximal(f.mapping, candidates) {
			found = append(found, f.mapping)
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return len(found[i]) > len(found[j])
	})
	return found
}

// maximal reports whether no candidate extends m.
func (mt *Matcher) maximal(m Mapping, candidates []Pair) bool {
	for _, p := range candidates {
		if mt.CanExtend(m, p) {
			return false
		}
	}
	return true
}
