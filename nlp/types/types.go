package types

import (
	"reflect"

	"treedep/util"
)

const (
	ROOT_LABEL = "ROOT"
	// NONE_LABEL is the relation of unlabeled dependencies
	NONE_LABEL = "NONE"
	// TOP_LABEL is the category of the virtual root of export trees
	TOP_LABEL = "VROOT"
	// DEFAULT_EDGE marks a missing grammatical function
	DEFAULT_EDGE = "--"
)

type TaggedToken struct {
	Token, POS string
}

type Sentence interface {
	util.Equaler
	Tokens() []string
}

type TaggedSentence interface {
	Sentence
	TaggedTokens() []TaggedToken
}

type BasicTaggedSentence []TaggedToken

var _ TaggedSentence = BasicTaggedSentence{}

func (b BasicTaggedSentence) Tokens() []string {
	tokens := make([]string, len(b))
	for i, token := range b {
		tokens[i] = token.Token
	}
	return tokens
}

func (b BasicTaggedSentence) TaggedTokens() []TaggedToken {
	return []TaggedToken(b)
}

func (b BasicTaggedSentence) Equal(otherEq util.Equaler) bool {
	asTagged, ok := otherEq.(BasicTaggedSentence)
	return ok && reflect.DeepEqual(b, asTagged)
}
