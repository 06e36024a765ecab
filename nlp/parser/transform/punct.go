package transform

import (
	"strings"

	"treedep/nlp/parser/headfinder"
	"treedep/nlp/types"
)

// closers maps closing signs to the sign that opens them
var closers = map[string]string{
	`"`: `"`,
	"]": "[",
	")": "(",
	"-": "-",
}

var openers = map[string]bool{
	`"`: true,
	"[": true,
	"(": true,
	"-": true,
}

// IsPunctuation reports whether tag is an STTS punctuation tag
func IsPunctuation(tag string) bool {
	return strings.HasPrefix(tag, headfinder.NEGRA_PUNCT_PREFIX)
}

// LowerPunctuation moves every punctuation terminal attached to the root
// down into the deepest constituent whose yield surrounds it, in front of the
// first child that starts after it. Punctuation outside of all constituents
// stays at the root.
func LowerPunctuation(t *types.Tree) error {
	t.SortChildren()
	var puncts []int
	for _, c := range t.Nodes[t.Root].Children {
		if t.IsTerminal(c) && IsPunctuation(t.Nodes[c].Tag) {
			puncts = append(puncts, c)
		}
	}
	for _, p := range puncts {
		if err := lower(t, p, t.Root); err != nil {
			return err
		}
	}
	t.SortChildren()
	return nil
}

func lower(t *types.Tree, p, target int) error {
	num := t.Nodes[p].Num
	for i, c := range t.Nodes[target].Children {
		if c == p {
			continue
		}
		yield := t.Yield(c)
		switch {
		case num < yield[0]:
			if t.Nodes[p].Parent == target {
				return nil
			}
			return t.MoveChild(p, target, i)
		case num < yield[len(yield)-1]:
			return lower(t, p, c)
		}
	}
	return nil
}

// BalancePunctuation pairs quotes, brackets, parentheses and dashes in surface
// order. If the constituent of the opening sign ends right before the
// closing sign, the closing sign joins it; otherwise, if the constituent of
// the closing sign starts right after the opening sign, the opening sign
// joins that one.
func BalancePunctuation(t *types.Tree) error {
	open := make(map[string]int)
	for _, term := range t.OrderedTerminals() {
		word := t.Nodes[term].Word
		if opener, closes := closers[word]; closes {
			if left, exists := open[opener]; exists {
				delete(open, opener)
				if err := balance(t, left, term); err != nil {
					return err
				}
				continue
			}
		}
		if openers[word] {
			open[word] = term
		}
	}
	t.SortChildren()
	return nil
}

func balance(t *types.Tree, left, right int) error {
	leftParent := t.Nodes[left].Parent
	if yield := t.Yield(leftParent); yield[len(yield)-1] == t.Nodes[right].Num-1 {
		return moveIfDetachable(t, right, leftParent, -1)
	}
	rightParent := t.Nodes[right].Parent
	if yield := t.Yield(rightParent); yield[0] == t.Nodes[left].Num+1 {
		return moveIfDetachable(t, left, rightParent, 0)
	}
	return nil
}

// moveIfDetachable leaves n alone if it already is a child of target or the
// only child of its parent
func moveIfDetachable(t *types.Tree, n, target, pos int) error {
	parent := t.Nodes[n].Parent
	if parent == target || len(t.Nodes[parent].Children) == 1 {
		return nil
	}
	return t.MoveChild(n, target, pos)
}
