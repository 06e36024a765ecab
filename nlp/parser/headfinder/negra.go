package headfinder

import (
	"strings"

	"treedep/nlp/types"
)

const HEAD_EDGE = "HD"

// NEGRA_PUNCT_PREFIX starts every STTS punctuation tag ($. $, $()
const NEGRA_PUNCT_PREFIX = "$"

// Negra prefers a child whose edge label is exactly HD and falls back to the
// NEGRA rule table. Below the virtual root, punctuation only heads if all
// children are punctuation.
type Negra struct {
	*RuleBased
}

var _ HeadFinder = &Negra{}

func NewNegra(rules Rules) *Negra {
	return &Negra{NewRuleBased(rules)}
}

func (n *Negra) FindHead(category string, tags, edges []string) (int, error) {
	if len(tags) == 0 {
		return 0, ErrEmptyChildren
	}
	for i, edge := range edges {
		if edge == HEAD_EDGE {
			return i, nil
		}
	}
	head, err := n.RuleBased.FindHead(category, tags, edges)
	if err != nil || !strings.EqualFold(pureTag(category), types.TOP_LABEL) || !isNegraPunctuation(tags[head]) {
		return head, err
	}
	for i := len(tags) - 1; i >= 0; i-- {
		if !isNegraPunctuation(tags[i]) {
			return i, nil
		}
	}
	return head, nil
}

func isNegraPunctuation(tag string) bool {
	return strings.HasPrefix(tag, NEGRA_PUNCT_PREFIX)
}
