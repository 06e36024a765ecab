package graph

import "treedep/util"

type Vertex interface {
	util.Equaler
	ID() int
}

type Edge interface {
	util.Equaler
	Vertices() []int
	ID() int
}

type DirectedEdge interface {
	Edge
	From() int
	To() int
}

type Graph interface {
	GetVertices() []int
	GetEdges() []int
	GetVertex(int) Vertex
	GetEdge(int) Edge
	NumberOfVertices() int
	NumberOfEdges() int
}

type DirectedGraph interface {
	Graph
	GetDirectedEdge(int) DirectedEdge
}

// Headed is a graph over the vertices 1..NumberOfVertices() in which each
// vertex has at most one head. Vertex ids double as linear (word order)
// positions.
type Headed interface {
	NumberOfVertices() int
	Head(int) (int, bool)
	Modifiers(int) []int
}
