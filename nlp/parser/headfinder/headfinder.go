// Package headfinder selects the head child of constituents. Finders follow
// generalized Collins (1999) head rules, optionally overridden by edge labels
// that mark heads explicitly.
package headfinder

import (
	"errors"
	"fmt"
	"strings"

	"treedep/nlp/types"
)

var (
	ErrEmptyChildren = errors.New("head requested for a constituent without children")
	ErrNoHead        = errors.New("no head child")
)

type HeadFinder interface {
	// FindHead returns the 0-based index of the head among the children of a
	// constituent of the given category
	FindHead(category string, tags, edges []string) (int, error)
}

// MarkHeads runs finder on every nonterminal of t
func MarkHeads(finder HeadFinder, t *types.Tree) (types.HeadMarks, error) {
	marks := make(types.HeadMarks, len(t.Nodes))
	for n := range t.Nodes {
		node := &t.Nodes[n]
		if len(node.Children) == 0 {
			marks[n] = types.NO_NODE
			continue
		}
		tags := make([]string, len(node.Children))
		edges := make([]string, len(node.Children))
		for i, c := range node.Children {
			tags[i] = t.Nodes[c].Tag
			edges[i] = t.Nodes[c].Edge
		}
		head, err := finder.FindHead(node.Tag, tags, edges)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", n, node.Tag, err)
		}
		if head < 0 || head >= len(node.Children) {
			return nil, fmt.Errorf("node %d (%s): %w: head index %d of %d children",
				n, node.Tag, ErrNoHead, head, len(node.Children))
		}
		marks[n] = head
	}
	return marks, nil
}

// pureTag strips grammatical function and index suffixes (NP-SBJ-1, NP=2)
func pureTag(tag string) string {
	if strings.HasPrefix(tag, "-") {
		return tag
	}
	if i := strings.IndexAny(tag, "-="); i > 0 {
		return tag[:i]
	}
	return tag
}

func Matches(tag, pattern string) bool {
	return strings.EqualFold(pureTag(tag), pattern)
}

// WHMatches additionally lets a wh-tag match its plain counterpart, e.g.
// WHNP matches NP
func WHMatches(tag, pattern string) bool {
	if Matches(tag, pattern) {
		return true
	}
	pure := strings.ToUpper(pureTag(tag))
	return strings.HasPrefix(pure, "WH") && strings.EqualFold(pure[2:], pattern)
}

var punctuation = map[string]bool{
	"''":    true,
	"``":    true,
	"-LRB-": true,
	"-RRB-": true,
	".":     true,
	":":     true,
	",":     true,
}

func isPunctuation(tag string) bool {
	return punctuation[tag]
}
