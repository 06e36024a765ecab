package types

import (
	"errors"
	"reflect"
	"testing"
)

// (VROOT (S (VP (PROAV-MO 1:Darüber) (VVPP-HD 4:nachgedacht)) (VMFIN-HD 2:muss) (PPER-SB 3:er)))
func discontinuousTree() *Tree {
	t := NewTree(1)
	root := t.AddNode(Node{Tag: TOP_LABEL, Edge: DEFAULT_EDGE})
	t.Root = root
	s := t.AddNode(Node{Tag: "S", Edge: DEFAULT_EDGE})
	vp := t.AddNode(Node{Tag: "VP", Edge: "OC"})
	darueber := t.AddNode(Node{Tag: "PROAV", Edge: "MO", Word: "Darüber", Num: 1})
	nachgedacht := t.AddNode(Node{Tag: "VVPP", Edge: "HD", Word: "nachgedacht", Num: 4})
	muss := t.AddNode(Node{Tag: "VMFIN", Edge: "HD", Word: "muss", Num: 2})
	er := t.AddNode(Node{Tag: "PPER", Edge: "SB", Word: "er", Num: 3})
	t.AppendChild(root, s)
	t.AppendChild(s, vp)
	t.AppendChild(vp, darueber)
	t.AppendChild(vp, nachgedacht)
	t.AppendChild(s, muss)
	t.AppendChild(s, er)
	return t
}

func TestOrderedTerminals(t *testing.T) {
	tree := discontinuousTree()
	words := make([]string, 0, 4)
	for _, term := range tree.OrderedTerminals() {
		words = append(words, tree.Nodes[term].Word)
	}
	expected := []string{"Darüber", "muss", "er", "nachgedacht"}
	if !reflect.DeepEqual(words, expected) {
		t.Errorf("Expected %v, got %v", expected, words)
	}
}

func TestChildIndex(t *testing.T) {
	tree := discontinuousTree()
	if tree.ChildIndex(tree.Root) != -1 {
		t.Error("Root should have child index -1")
	}
	// muss is the second child of S
	if idx := tree.ChildIndex(5); idx != 1 {
		t.Errorf("Expected child index 1, got %d", idx)
	}
}

func TestValidate(t *testing.T) {
	tree := discontinuousTree()
	if err := tree.Validate(); err != nil {
		t.Errorf("Valid tree failed validation: %v", err)
	}
	tree.AddNode(Node{Tag: "NN", Word: "stray", Num: 5})
	if err := tree.Validate(); !errors.Is(err, ErrMalformedTree) {
		t.Errorf("Expected malformed tree error for disconnected terminal, got %v", err)
	}

	gapped := discontinuousTree()
	gapped.Nodes[6].Num = 7
	if err := gapped.Validate(); !errors.Is(err, ErrMalformedTree) {
		t.Errorf("Expected malformed tree error for non-dense positions, got %v", err)
	}

	if err := NewTree(2).Validate(); !errors.Is(err, ErrMalformedTree) {
		t.Errorf("Expected malformed tree error for empty tree, got %v", err)
	}
}

func TestGapDegree(t *testing.T) {
	tree := discontinuousTree()
	if !reflect.DeepEqual(tree.Yield(2), []int{1, 4}) {
		t.Errorf("Unexpected VP yield %v", tree.Yield(2))
	}
	if tree.Gaps(2) != 1 {
		t.Errorf("Expected one gap in VP, got %d", tree.Gaps(2))
	}
	if tree.IsContinuous() {
		t.Error("Tree with discontinuous VP reported as continuous")
	}
}

func TestSortChildren(t *testing.T) {
	tree := discontinuousTree()
	// put er before muss, sorting must restore surface order of leftmost terminals
	tree.Nodes[1].Children = []int{6, 2, 5}
	tree.SortChildren()
	if !reflect.DeepEqual(tree.Nodes[1].Children, []int{2, 5, 6}) {
		t.Errorf("Unexpected children order %v", tree.Nodes[1].Children)
	}
}

func TestMoveChild(t *testing.T) {
	tree := discontinuousTree()
	if err := tree.MoveChild(6, 2, 1); err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if !reflect.DeepEqual(tree.Nodes[2].Children, []int{3, 6, 4}) {
		t.Errorf("Unexpected VP children %v", tree.Nodes[2].Children)
	}
	if !reflect.DeepEqual(tree.Nodes[1].Children, []int{2, 5}) {
		t.Errorf("Unexpected S children %v", tree.Nodes[1].Children)
	}
	if tree.Nodes[6].Parent != 2 {
		t.Errorf("Expected parent 2, got %d", tree.Nodes[6].Parent)
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Tree invalid after move: %v", err)
	}
	// an out of range position appends
	if err := tree.MoveChild(5, 2, 10); err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if !reflect.DeepEqual(tree.Nodes[2].Children, []int{3, 6, 4, 5}) {
		t.Errorf("Unexpected VP children %v", tree.Nodes[2].Children)
	}

	for name, move := range map[string][3]int{
		"root":       {0, 1, 0},
		"only child": {1, 2, 0},
		"terminal":   {3, 4, 0},
		"below self": {1, 2, 0},
	} {
		tree := discontinuousTree()
		if name == "below self" {
			tree.AppendChild(0, tree.AddNode(Node{Tag: "$.", Word: ".", Num: 5}))
		}
		if err := tree.MoveChild(move[0], move[1], move[2]); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("%s: expected invalid move, got %v", name, err)
		}
	}
}

func TestBracketed(t *testing.T) {
	tree := discontinuousTree()
	marks := HeadMarks{0, 1, 1, NO_NODE, NO_NODE, NO_NODE, NO_NODE}
	expected := "(VROOT (S=H (VP-OC (PROAV-MO 0=Darüber) (VVPP-HD=H 3=nachgedacht)) (VMFIN-HD=H 1=muss) (PPER-SB 2=er)))"
	if got := tree.Bracketed(marks); got != expected {
		t.Errorf("Expected\n%s\ngot\n%s", expected, got)
	}
}
