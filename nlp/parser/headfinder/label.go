package headfinder

import (
	"fmt"
	"strings"
)

// Label trusts the annotation alone: the head is the first child whose edge
// label has an HD component (HD, HD-1, OC-HD, ...)
type Label struct{}

var _ HeadFinder = Label{}

func (Label) FindHead(category string, tags, edges []string) (int, error) {
	if len(tags) == 0 {
		return 0, ErrEmptyChildren
	}
	for i, edge := range edges {
		if HasHeadLabel(edge) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no %s label in %s -> %v", ErrNoHead, HEAD_EDGE, category, tags)
}

// HasHeadLabel reports whether one of the '-' separated parts of edge is HD
func HasHeadLabel(edge string) bool {
	for _, part := range strings.Split(edge, "-") {
		if part == HEAD_EDGE {
			return true
		}
	}
	return false
}
