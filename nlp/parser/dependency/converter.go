package dependency

import (
	"errors"
	"fmt"

	"treedep/nlp/parser/headfinder"
	"treedep/nlp/parser/transform"
	. "treedep/nlp/types"
)

var ErrNoHeadMark = errors.New("constituent without head mark")

// ConversionError ties a failure to the sentence it occurred in
type ConversionError struct {
	SentenceID int
	Err        error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("sentence %d: %v", e.SentenceID, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Converter builds a dependency forest by head percolation and labels its
// edges with Composer. Transforms, if any, rewrite the input tree in place
// first. A Converter holds no per-sentence state and may be shared between
// goroutines if its Finder may.
type Converter struct {
	Finder     headfinder.HeadFinder
	Composer   LabelComposer
	Transforms transform.Chain
}

var _ DependencyConverter = &Converter{}

func (c *Converter) Convert(t *Tree) (*Forest, error) {
	forest, _, err := c.ConvertMarked(t)
	return forest, err
}

// ConvertMarked also returns the head marks the forest was built from
func (c *Converter) ConvertMarked(t *Tree) (*Forest, HeadMarks, error) {
	forest, marks, err := c.convert(t)
	if err != nil {
		return nil, nil, &ConversionError{t.ID, err}
	}
	return forest, marks, nil
}

func (c *Converter) convert(t *Tree) (*Forest, HeadMarks, error) {
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}
	if err := c.Transforms.Apply(t); err != nil {
		return nil, nil, err
	}
	marks, err := headfinder.MarkHeads(c.Finder, t)
	if err != nil {
		return nil, nil, err
	}
	var annotations Annotations
	if c.Composer.NeedsAnnotation() {
		annotations = Annotate(t, marks)
	}

	forest := NewForest(t.ID)
	ids := make(map[int]int, len(t.Nodes))
	for _, term := range t.OrderedTerminals() {
		node := &t.Nodes[term]
		ids[term] = forest.AddNode(TaggedToken{Token: node.Word, POS: node.Tag})
	}
	p := &percolation{t, marks, ids, forest}
	if _, err := p.percolate(t.Root); err != nil {
		return nil, nil, err
	}
	for term, id := range ids {
		if _, hasHead := forest.Head(id); !hasHead {
			continue
		}
		if err := forest.SetRelation(id, c.Composer.Compose(annotations[term])); err != nil {
			return nil, nil, err
		}
	}
	return forest, marks, nil
}

type percolation struct {
	tree   *Tree
	marks  HeadMarks
	ids    map[int]int
	forest *Forest
}

// percolate adds the edges below n and returns its lexical head
func (p *percolation) percolate(n int) (int, error) {
	children := p.tree.Nodes[n].Children
	if len(children) == 0 {
		return n, nil
	}
	h := p.marks[n]
	if h < 0 || h >= len(children) {
		return 0, fmt.Errorf("%w: node %d (%s)", ErrNoHeadMark, n, p.tree.Nodes[n].Tag)
	}
	lexHead, err := p.percolate(children[h])
	if err != nil {
		return 0, err
	}
	for i, c := range children {
		if i == h {
			continue
		}
		lexMod, err := p.percolate(c)
		if err != nil {
			return 0, err
		}
		if err := p.forest.AddEdge(p.ids[lexMod], p.ids[lexHead], NONE_LABEL); err != nil {
			return 0, err
		}
	}
	return lexHead, nil
}
