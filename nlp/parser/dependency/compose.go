package dependency

import (
	. "treedep/nlp/types"
)

// LabelComposer turns the annotation of a modifier into the relation of its
// incoming edge
type LabelComposer interface {
	Compose(Annotation) DepRel
	// NeedsAnnotation is false for composers that ignore the annotation, so
	// converters can skip annotating
	NeedsAnnotation() bool
}

type UnlabeledComposer struct{}

func (UnlabeledComposer) Compose(Annotation) DepRel {
	return NONE_LABEL
}

func (UnlabeledComposer) NeedsAnnotation() bool {
	return false
}

// HallNivreComposer composes [deprel,headrel,constlab,attachment]
type HallNivreComposer struct{}

func (HallNivreComposer) Compose(a Annotation) DepRel {
	return DepRel(a.String())
}

func (HallNivreComposer) NeedsAnnotation() bool {
	return true
}

// MaxProjComposer labels an edge with the grammatical function of the
// modifier's maximal projection
type MaxProjComposer struct{}

func (MaxProjComposer) Compose(a Annotation) DepRel {
	if a.DepRel == "" {
		return DEFAULT_EDGE
	}
	return DepRel(a.DepRel)
}

func (MaxProjComposer) NeedsAnnotation() bool {
	return true
}
