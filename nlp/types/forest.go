package types

import (
	"errors"
	"fmt"

	"treedep/alg/graph"
	"treedep/util"
)

var (
	ErrUnknownNode   = errors.New("unknown node id")
	ErrSelfLoop      = errors.New("node cannot be its own head")
	ErrMultipleHeads = errors.New("node already has a head")
)

// ForestNode is a terminal of a dependency forest
type ForestNode struct {
	Id int
	TaggedToken
}

var _ DepNode = &ForestNode{}

func (n *ForestNode) ID() int {
	return n.Id
}

func (n *ForestNode) String() string {
	return n.Token
}

func (n *ForestNode) Equal(otherEq util.Equaler) bool {
	other, ok := otherEq.(*ForestNode)
	return ok && *n == *other
}

// ForestArc points from a modifier to its head
type ForestArc struct {
	Modifier, Head int
	Relation       DepRel
}

var _ LabeledDepArc = &ForestArc{}

// ID of an arc is the id of its modifier, which has at most one head
func (arc *ForestArc) ID() int {
	return arc.Modifier
}

func (arc *ForestArc) Vertices() []int {
	return []int{arc.Head, arc.Modifier}
}

func (arc *ForestArc) From() int {
	return arc.Modifier
}

func (arc *ForestArc) To() int {
	return arc.Head
}

func (arc *ForestArc) GetHead() int {
	return arc.Head
}

func (arc *ForestArc) GetModifier() int {
	return arc.Modifier
}

func (arc *ForestArc) GetRelation() DepRel {
	return arc.Relation
}

func (arc *ForestArc) Equal(otherEq util.Equaler) bool {
	other, ok := otherEq.(*ForestArc)
	return ok && *arc == *other
}

func (arc *ForestArc) String() string {
	return fmt.Sprintf("(%d,%s,%d)", arc.Head, arc.Relation, arc.Modifier)
}

// Forest is a dependency graph over the terminals of one sentence. Node ids
// are 1-based positions in the sentence; every node has at most one head.
type Forest struct {
	ID    int
	nodes []ForestNode
	heads []int // by id-1, 0 if the node has no head
	rels  []DepRel
}

var _ LabeledDependencyGraph = &Forest{}
var _ graph.Headed = &Forest{}

func NewForest(id int) *Forest {
	return &Forest{ID: id}
}

// AddNode appends a terminal and returns its id. Nodes must be added in
// sentence order.
func (f *Forest) AddNode(token TaggedToken) int {
	id := len(f.nodes) + 1
	f.nodes = append(f.nodes, ForestNode{id, token})
	f.heads = append(f.heads, 0)
	f.rels = append(f.rels, "")
	return id
}

func (f *Forest) exists(id int) bool {
	return id >= 1 && id <= len(f.nodes)
}

func (f *Forest) AddEdge(modifier, head int, relation DepRel) error {
	if !f.exists(modifier) || !f.exists(head) {
		return fmt.Errorf("%w: edge %d -> %d in forest of %d nodes", ErrUnknownNode, modifier, head, len(f.nodes))
	}
	if modifier == head {
		return fmt.Errorf("%w: %d", ErrSelfLoop, modifier)
	}
	if f.heads[modifier-1] != 0 {
		return fmt.Errorf("%w: %d -> %d, cannot add %d -> %d",
			ErrMultipleHeads, modifier, f.heads[modifier-1], modifier, head)
	}
	f.heads[modifier-1] = head
	f.rels[modifier-1] = relation
	return nil
}

// SetRelation relabels the incoming edge of id
func (f *Forest) SetRelation(id int, relation DepRel) error {
	if !f.exists(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if f.heads[id-1] == 0 {
		return fmt.Errorf("node %d has no head to relabel", id)
	}
	f.rels[id-1] = relation
	return nil
}

func (f *Forest) Head(id int) (int, bool) {
	if !f.exists(id) || f.heads[id-1] == 0 {
		return 0, false
	}
	return f.heads[id-1], true
}

func (f *Forest) Relation(id int) (DepRel, bool) {
	if _, exists := f.Head(id); !exists {
		return "", false
	}
	return f.rels[id-1], true
}

func (f *Forest) Token(id int) TaggedToken {
	return f.nodes[id-1].TaggedToken
}

// Nodes returns all ids in sentence order
func (f *Forest) Nodes() []int {
	return util.RangeInt(1, len(f.nodes)+1)
}

// Roots returns the ids without a head
func (f *Forest) Roots() []int {
	var roots []int
	for i, head := range f.heads {
		if head == 0 {
			roots = append(roots, i+1)
		}
	}
	return roots
}

// Modifiers returns the ids headed by id, ascending
func (f *Forest) Modifiers(id int) []int {
	var mods []int
	for i, head := range f.heads {
		if head == id {
			mods = append(mods, i+1)
		}
	}
	return mods
}

func (f *Forest) IsRoot(id int) bool {
	_, hasHead := f.Head(id)
	return f.exists(id) && !hasHead
}

// graph.Graph; vertices and edges are addressed by node id

func (f *Forest) GetVertices() []int {
	return f.Nodes()
}

// GetEdges returns the ids of the nodes that have a head
func (f *Forest) GetEdges() []int {
	edges := make([]int, 0, len(f.nodes))
	for i, head := range f.heads {
		if head != 0 {
			edges = append(edges, i+1)
		}
	}
	return edges
}

func (f *Forest) GetVertex(id int) graph.Vertex {
	if !f.exists(id) {
		return nil
	}
	return &f.nodes[id-1]
}

func (f *Forest) GetEdge(id int) graph.Edge {
	arc := f.GetLabeledArc(id)
	if arc == nil {
		return nil
	}
	return arc
}

func (f *Forest) GetDirectedEdge(id int) graph.DirectedEdge {
	arc := f.GetLabeledArc(id)
	if arc == nil {
		return nil
	}
	return arc
}

func (f *Forest) NumberOfVertices() int {
	return len(f.nodes)
}

func (f *Forest) NumberOfEdges() int {
	return len(f.GetEdges())
}

func (f *Forest) GetNode(id int) DepNode {
	if !f.exists(id) {
		return nil
	}
	return &f.nodes[id-1]
}

func (f *Forest) GetArc(id int) DepArc {
	arc := f.GetLabeledArc(id)
	if arc == nil {
		return nil
	}
	return arc
}

func (f *Forest) GetLabeledArc(id int) LabeledDepArc {
	head, exists := f.Head(id)
	if !exists {
		return nil
	}
	return &ForestArc{id, head, f.rels[id-1]}
}

func (f *Forest) NumberOfNodes() int {
	return f.NumberOfVertices()
}

func (f *Forest) NumberOfArcs() int {
	return f.NumberOfEdges()
}

func (f *Forest) Sentence() Sentence {
	return f.TaggedSentence()
}

func (f *Forest) TaggedSentence() TaggedSentence {
	sent := make(BasicTaggedSentence, len(f.nodes))
	for i, node := range f.nodes {
		sent[i] = node.TaggedToken
	}
	return sent
}

// Equal compares tokens, heads and relations; sentence ids are ignored
func (f *Forest) Equal(otherEq util.Equaler) bool {
	other, ok := otherEq.(*Forest)
	if !ok || len(f.nodes) != len(other.nodes) {
		return false
	}
	for i := range f.nodes {
		if f.nodes[i] != other.nodes[i] || f.heads[i] != other.heads[i] {
			return false
		}
		if f.heads[i] != 0 && f.rels[i] != other.rels[i] {
			return false
		}
	}
	return true
}

// Structure analysis

func (f *Forest) Projection(id int) []int {
	return graph.Projection(f, id)
}

func (f *Forest) GapDegree() int {
	return graph.GapDegree(f)
}

func (f *Forest) EdgeDegree(id int) int {
	return graph.EdgeDegree(f, id)
}

func (f *Forest) IsWellNested() bool {
	return graph.WellNested(f)
}

func (f *Forest) IllnestednessDegree() int {
	return graph.IllnestednessDegree(f)
}

func (f *Forest) String() string {
	var arcs []string
	for _, id := range f.GetEdges() {
		arcs = append(arcs, f.GetLabeledArc(id).String())
	}
	return fmt.Sprintf("%d:%v%v", f.ID, f.TaggedSentence(), arcs)
}
