package types

import (
	"errors"
	"reflect"
	"testing"
)

func threeNodeForest() *Forest {
	f := NewForest(7)
	f.AddNode(TaggedToken{"the", "DT"})
	f.AddNode(TaggedToken{"dog", "NN"})
	f.AddNode(TaggedToken{"barks", "VBZ"})
	return f
}

func TestForestAddEdge(t *testing.T) {
	f := threeNodeForest()
	if err := f.AddEdge(1, 2, "NONE"); err != nil {
		t.Fatal(err)
	}
	if err := f.AddEdge(2, 3, "NONE"); err != nil {
		t.Fatal(err)
	}
	if err := f.AddEdge(1, 3, "NONE"); !errors.Is(err, ErrMultipleHeads) {
		t.Errorf("Expected multiple heads error, got %v", err)
	}
	if err := f.AddEdge(3, 3, "NONE"); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Expected self loop error, got %v", err)
	}
	if err := f.AddEdge(4, 3, "NONE"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Expected unknown node error, got %v", err)
	}
	if f.NumberOfNodes() != 3 {
		t.Errorf("Expected 3 nodes, got %d", f.NumberOfNodes())
	}
	if f.NumberOfArcs() != 2 {
		t.Errorf("Expected 2 arcs, got %d", f.NumberOfArcs())
	}
	if !reflect.DeepEqual(f.Roots(), []int{3}) {
		t.Errorf("Expected root [3], got %v", f.Roots())
	}
	if !reflect.DeepEqual(f.Modifiers(3), []int{2}) {
		t.Errorf("Expected modifiers [2] of 3, got %v", f.Modifiers(3))
	}
}

func TestForestGraphInterface(t *testing.T) {
	f := threeNodeForest()
	f.AddEdge(1, 2, "NK")
	f.AddEdge(2, 3, "SB")
	arc := f.GetLabeledArc(1)
	if arc.GetHead() != 2 || arc.GetModifier() != 1 || arc.GetRelation() != "NK" {
		t.Errorf("Unexpected arc %v", arc)
	}
	if arc.From() != 1 || arc.To() != 2 {
		t.Error("Arcs should point from modifier to head")
	}
	if f.GetArc(3) != nil {
		t.Error("Root should not have an arc")
	}
	if f.GetNode(2).String() != "dog" {
		t.Errorf("Expected dog, got %s", f.GetNode(2).String())
	}
	if !reflect.DeepEqual(f.GetEdges(), []int{1, 2}) {
		t.Errorf("Unexpected edges %v", f.GetEdges())
	}
	if !reflect.DeepEqual(f.Sentence().Tokens(), []string{"the", "dog", "barks"}) {
		t.Errorf("Unexpected tokens %v", f.Sentence().Tokens())
	}
}

func TestForestSetRelation(t *testing.T) {
	f := threeNodeForest()
	f.AddEdge(1, 2, "NONE")
	if err := f.SetRelation(1, "[NK,*,*,0]"); err != nil {
		t.Fatal(err)
	}
	if rel, _ := f.Relation(1); rel != "[NK,*,*,0]" {
		t.Errorf("Relation not updated, got %s", rel)
	}
	if err := f.SetRelation(3, "X"); err == nil {
		t.Error("Expected error relabeling a root")
	}
}

func TestForestEqual(t *testing.T) {
	a, b := threeNodeForest(), threeNodeForest()
	a.AddEdge(1, 2, "NK")
	b.AddEdge(1, 2, "NK")
	if !a.Equal(b) {
		t.Error("Expected equal forests")
	}
	b.SetRelation(1, "AG")
	if a.Equal(b) {
		t.Error("Forests with different relations reported equal")
	}
}

func TestForestStructure(t *testing.T) {
	// Darüber muss er nachgedacht: nachgedacht heads Darüber across muss and er
	f := NewForest(1)
	f.AddNode(TaggedToken{"Darüber", "PROAV"})
	f.AddNode(TaggedToken{"muss", "VMFIN"})
	f.AddNode(TaggedToken{"er", "PPER"})
	f.AddNode(TaggedToken{"nachgedacht", "VVPP"})
	f.AddEdge(1, 4, "MO")
	f.AddEdge(3, 2, "SB")
	f.AddEdge(4, 2, "OC")
	if f.GapDegree() != 1 {
		t.Errorf("Expected gap degree 1, got %d", f.GapDegree())
	}
	if !reflect.DeepEqual(f.Projection(4), []int{1, 4}) {
		t.Errorf("Unexpected projection %v", f.Projection(4))
	}
	if f.EdgeDegree(1) != 1 {
		t.Errorf("Expected edge degree 1, got %d", f.EdgeDegree(1))
	}
	if !f.IsWellNested() {
		t.Error("Expected well-nested forest")
	}
}
