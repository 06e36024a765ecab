// Package dependency converts constituent trees to dependency forests by
// percolating lexical heads (Lin 1995). Labeled variants derive relation
// labels from the head chains of the tree (Hall & Nivre 2008).
package dependency

import (
	. "treedep/nlp/types"
)

const (
	UNLABELED         = "unlabeleddep"
	HALLNIVRE_LABELED = "hallnivrelabeleddep"
	MAXPROJ_LABELED   = "maxprojlabeleddep"
)

type DependencyConverter interface {
	Convert(*Tree) (*Forest, error)
}
