package transform

import (
	"treedep/nlp/parser/headfinder"
	"treedep/nlp/types"
)

// HeadLabeler writes the heads chosen by Finder into the edge labels: the
// default edge becomes HD, any other label L becomes L-HD. Labels that
// already have an HD part are kept.
type HeadLabeler struct {
	Finder headfinder.HeadFinder
}

var _ Transform = &HeadLabeler{}

func (h *HeadLabeler) Apply(t *types.Tree) error {
	marks, err := headfinder.MarkHeads(h.Finder, t)
	if err != nil {
		return err
	}
	for n := range t.Nodes {
		if !marks.IsHead(t, n) {
			continue
		}
		node := &t.Nodes[n]
		switch {
		case node.Edge == "" || node.Edge == types.DEFAULT_EDGE:
			node.Edge = headfinder.HEAD_EDGE
		case !headfinder.HasHeadLabel(node.Edge):
			node.Edge += "-" + headfinder.HEAD_EDGE
		}
	}
	return nil
}
