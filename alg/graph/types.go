package graph

import (
	"sort"

	"treedep/util"
)

// BasicVertex is a vertex id
type BasicVertex int

// BasicDirectedEdge is {id, from, to}; in a dependency graph from is the
// modifier and to is the head
type BasicDirectedEdge [3]int

// BasicGraph is a minimal DirectedGraph. Vertices are expected to be numbered
// 1..len(Vertices), which also makes it a Headed graph.
type BasicGraph struct {
	Vertices []BasicVertex
	Edges    []BasicDirectedEdge
}

var _ Vertex = *new(BasicVertex)
var _ DirectedEdge = BasicDirectedEdge{}
var _ DirectedGraph = &BasicGraph{}
var _ Headed = &BasicGraph{}

func (b BasicVertex) ID() int {
	return int(b)
}

func (b BasicVertex) Equal(otherEq util.Equaler) bool {
	other, ok := otherEq.(BasicVertex)
	return ok && b == other
}

func (e BasicDirectedEdge) ID() int {
	return e[0]
}

func (e BasicDirectedEdge) From() int {
	return e[1]
}

func (e BasicDirectedEdge) To() int {
	return e[2]
}

func (e BasicDirectedEdge) Vertices() []int {
	return []int{e[1], e[2]}
}

func (e BasicDirectedEdge) Equal(otherEq util.Equaler) bool {
	other, ok := otherEq.(BasicDirectedEdge)
	return ok && e[1] == other[1] && e[2] == other[2]
}

func (g *BasicGraph) GetVertices() []int {
	return util.RangeInt(1, len(g.Vertices)+1)
}

func (g *BasicGraph) GetEdges() []int {
	return util.RangeInt(0, len(g.Edges))
}

// GetVertex takes a vertex id as returned by GetVertices
func (g *BasicGraph) GetVertex(id int) Vertex {
	return g.Vertices[id-1]
}

func (g *BasicGraph) GetEdge(i int) Edge {
	return Edge(g.Edges[i])
}

func (g *BasicGraph) NumberOfVertices() int {
	return len(g.Vertices)
}

func (g *BasicGraph) NumberOfEdges() int {
	return len(g.Edges)
}

func (g *BasicGraph) GetDirectedEdge(i int) DirectedEdge {
	return g.Edges[i]
}

func (g *BasicGraph) Head(v int) (int, bool) {
	for _, e := range g.Edges {
		if e.From() == v {
			return e.To(), true
		}
	}
	return 0, false
}

func (g *BasicGraph) Modifiers(v int) []int {
	var mods []int
	for _, e := range g.Edges {
		if e.To() == v {
			mods = append(mods, e.From())
		}
	}
	sort.Ints(mods)
	return mods
}
