// Package transform rewrites constituent trees before they are converted to
// dependencies.
package transform

import (
	"sort"
	"strings"

	"treedep/nlp/parser/headfinder"
	"treedep/nlp/types"
	"treedep/util"
)

const (
	PUNCT_LOWERER = "punctlowerer"
	HEAD_LABELER  = "headlabeler"
)

// Transform modifies a tree in place
type Transform interface {
	Apply(t *types.Tree) error
}

// Func adapts a plain function to Transform
type Func func(t *types.Tree) error

func (f Func) Apply(t *types.Tree) error {
	return f(t)
}

// Chain applies its transforms in order and stops at the first error
type Chain []Transform

func (c Chain) Apply(t *types.Tree) error {
	for _, transform := range c {
		if err := transform.Apply(t); err != nil {
			return err
		}
	}
	return nil
}

func Names() []string {
	names := []string{PUNCT_LOWERER, HEAD_LABELER}
	sort.Strings(names)
	return names
}

// ParseList splits a comma separated list of transform names
func ParseList(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// New builds the chain of the named transforms. The head labeler marks the
// heads chosen by finder.
func New(names []string, finder headfinder.HeadFinder) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		switch name {
		case PUNCT_LOWERER:
			chain = append(chain, Func(LowerPunctuation), Func(BalancePunctuation))
		case HEAD_LABELER:
			if finder == nil {
				return nil, headfinder.ErrMissingHeadFinder
			}
			chain = append(chain, &HeadLabeler{Finder: finder})
		default:
			return nil, &util.UnknownTaskError{Kind: "tree transform", Task: name}
		}
	}
	return chain, nil
}
