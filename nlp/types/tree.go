package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const NO_NODE = -1

var (
	ErrMalformedTree = errors.New("malformed tree")
	ErrInvalidMove   = errors.New("invalid move")
)

// A Node of a constituent tree. Nodes live in the Tree's arena and refer to
// each other by index.
type Node struct {
	Tag, Edge    string
	Word         string
	Lemma, Morph string
	// Num is the 1-based surface position of a terminal, 0 for nonterminals
	Num      int
	Parent   int
	Children []int
}

// Tree is a possibly discontinuous constituent tree. Children are kept in
// grammatical order, which need not be the surface order of their yields.
type Tree struct {
	ID    int
	Root  int
	Nodes []Node
}

// HeadMarks holds the head child index of every node of a tree, indexed by
// node index; terminals are NO_NODE.
type HeadMarks []int

func NewTree(id int) *Tree {
	return &Tree{ID: id, Root: NO_NODE}
}

// AddNode appends an unlinked copy of n and returns its index
func (t *Tree) AddNode(n Node) int {
	n.Parent = NO_NODE
	n.Children = nil
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1
}

func (t *Tree) AppendChild(parent, child int) {
	t.Nodes[child].Parent = parent
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, child)
}

// MoveChild detaches n from its parent and inserts it as the pos-th child of
// target; a pos outside the children of target appends. The root cannot be
// moved, nor can a node be moved below itself, into a terminal, or away from
// a parent it is the only child of.
func (t *Tree) MoveChild(n, target, pos int) error {
	old := t.Nodes[n].Parent
	switch {
	case old == NO_NODE:
		return fmt.Errorf("%w: node %d of sentence %d is the root", ErrInvalidMove, n, t.ID)
	case t.IsTerminal(target):
		return fmt.Errorf("%w: target %d of sentence %d is a terminal", ErrInvalidMove, target, t.ID)
	case old != target && len(t.Nodes[old].Children) == 1:
		return fmt.Errorf("%w: node %d is the only child of %d in sentence %d", ErrInvalidMove, n, old, t.ID)
	}
	for cur := target; cur != NO_NODE; cur = t.Nodes[cur].Parent {
		if cur == n {
			return fmt.Errorf("%w: node %d of sentence %d dominates %d", ErrInvalidMove, n, t.ID, target)
		}
	}
	i := t.ChildIndex(n)
	siblings := t.Nodes[old].Children
	t.Nodes[old].Children = append(siblings[:i:i], siblings[i+1:]...)

	children := t.Nodes[target].Children
	if pos < 0 || pos > len(children) {
		pos = len(children)
	}
	children = append(children, NO_NODE)
	copy(children[pos+1:], children[pos:])
	children[pos] = n
	t.Nodes[target].Children = children
	t.Nodes[n].Parent = target
	return nil
}

func (t *Tree) IsTerminal(n int) bool {
	return len(t.Nodes[n].Children) == 0
}

// ChildIndex returns the position of n among its parent's children, -1 for
// the root
func (t *Tree) ChildIndex(n int) int {
	p := t.Nodes[n].Parent
	if p == NO_NODE {
		return -1
	}
	for i, c := range t.Nodes[p].Children {
		if c == n {
			return i
		}
	}
	return -1
}

func (t *Tree) Terminals() []int {
	terms := make([]int, 0, len(t.Nodes))
	for i := range t.Nodes {
		if t.IsTerminal(i) {
			terms = append(terms, i)
		}
	}
	return terms
}

// OrderedTerminals returns the terminals in surface order. Depth-first
// traversal does not give this order for discontinuous trees.
func (t *Tree) OrderedTerminals() []int {
	terms := t.Terminals()
	sort.SliceStable(terms, func(i, j int) bool {
		return t.Nodes[terms[i]].Num < t.Nodes[terms[j]].Num
	})
	return terms
}

func (t *Tree) Validate() error {
	if t.Root < 0 || t.Root >= len(t.Nodes) {
		return fmt.Errorf("%w: sentence %d has no root", ErrMalformedTree, t.ID)
	}
	if t.Nodes[t.Root].Parent != NO_NODE {
		return fmt.Errorf("%w: root of sentence %d has a parent", ErrMalformedTree, t.ID)
	}
	terminals := t.OrderedTerminals()
	if len(terminals) == 0 || (len(terminals) == 1 && terminals[0] == t.Root && t.Nodes[t.Root].Num == 0) {
		return fmt.Errorf("%w: sentence %d has no terminals", ErrMalformedTree, t.ID)
	}
	for i, term := range terminals {
		if t.Nodes[term].Num != i+1 {
			return fmt.Errorf("%w: terminal %q of sentence %d has position %d, expected %d",
				ErrMalformedTree, t.Nodes[term].Word, t.ID, t.Nodes[term].Num, i+1)
		}
	}
	for n := range t.Nodes {
		if n != t.Root && t.ChildIndex(n) == -1 {
			return fmt.Errorf("%w: node %d (%s) of sentence %d has no parent",
				ErrMalformedTree, n, t.Nodes[n].Tag, t.ID)
		}
		cur, steps := n, 0
		for cur != t.Root {
			cur = t.Nodes[cur].Parent
			steps++
			if cur == NO_NODE || steps > len(t.Nodes) {
				return fmt.Errorf("%w: node %d (%s) of sentence %d is not connected to the root",
					ErrMalformedTree, n, t.Nodes[n].Tag, t.ID)
			}
		}
	}
	return nil
}

// Yield returns the surface positions of the terminals dominated by n,
// ascending
func (t *Tree) Yield(n int) []int {
	positions := t.collectYield(n, make([]int, 0, 8))
	sort.Ints(positions)
	return positions
}

func (t *Tree) collectYield(n int, positions []int) []int {
	if t.IsTerminal(n) {
		return append(positions, t.Nodes[n].Num)
	}
	for _, c := range t.Nodes[n].Children {
		positions = t.collectYield(c, positions)
	}
	return positions
}

// SortChildren orders all children lists by the leftmost terminal each child
// dominates, as in the export format
func (t *Tree) SortChildren() {
	leftmost := make([]int, len(t.Nodes))
	for i := range t.Nodes {
		leftmost[i] = t.Yield(i)[0]
	}
	for i := range t.Nodes {
		children := t.Nodes[i].Children
		sort.SliceStable(children, func(a, b int) bool {
			return leftmost[children[a]] < leftmost[children[b]]
		})
	}
}

// Gaps returns the number of gaps in the yield of n
func (t *Tree) Gaps(n int) int {
	var gaps int
	yield := t.Yield(n)
	for i := 1; i < len(yield); i++ {
		if yield[i] > yield[i-1]+1 {
			gaps++
		}
	}
	return gaps
}

// GapDegree is the maximal number of gaps of any node
func (t *Tree) GapDegree() int {
	var max int
	for n := range t.Nodes {
		if g := t.Gaps(n); g > max {
			max = g
		}
	}
	return max
}

func (t *Tree) IsContinuous() bool {
	return t.GapDegree() == 0
}

// IsHead reports whether n is the marked head child of its parent
func (m HeadMarks) IsHead(t *Tree, n int) bool {
	p := t.Nodes[n].Parent
	return p != NO_NODE && m[p] == t.ChildIndex(n)
}

// Bracketed renders the tree in bracket notation. Edge labels are appended to
// tags with '-'; terminals of discontinuous trees are written as index=word
// (0-based). If marks is not nil, head children are suffixed with "=H".
func (t *Tree) Bracketed(marks HeadMarks) string {
	if t.Root == NO_NODE {
		return "()"
	}
	var b strings.Builder
	t.writeBracketed(&b, t.Root, marks, !t.IsContinuous())
	return b.String()
}

func (t *Tree) writeBracketed(b *strings.Builder, n int, marks HeadMarks, indexed bool) {
	node := &t.Nodes[n]
	b.WriteByte('(')
	b.WriteString(node.Tag)
	if node.Edge != "" && node.Edge != DEFAULT_EDGE {
		b.WriteByte('-')
		b.WriteString(node.Edge)
	}
	if marks != nil && marks.IsHead(t, n) {
		b.WriteString("=H")
	}
	if t.IsTerminal(n) {
		b.WriteByte(' ')
		if indexed {
			fmt.Fprintf(b, "%d=", node.Num-1)
		}
		b.WriteString(node.Word)
	} else {
		for _, c := range node.Children {
			b.WriteByte(' ')
			t.writeBracketed(b, c, marks, indexed)
		}
	}
	b.WriteByte(')')
}

// TreeScanner streams the trees of a treebank, in the manner of
// bufio.Scanner
type TreeScanner interface {
	Scan() bool
	Tree() *Tree
	Err() error
}
