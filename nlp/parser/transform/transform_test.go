package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treedep/nlp/format/export"
	"treedep/nlp/parser/headfinder"
	"treedep/nlp/types"
	"treedep/util"
)

// Der Hund , der bellt , beißt .
const relativeClause = `#BOS 1
Der	ART	Nom.Sg.Masc	NK	500
Hund	NN	Nom.Sg.Masc	NK	500
,	$,	--	--	0
der	PRELS	Nom.Sg.Masc	SB	501
bellt	VVFIN	3.Sg.Pres.Ind	HD	501
,	$,	--	--	0
beißt	VVFIN	3.Sg.Pres.Ind	HD	502
.	$.	--	--	0
#500	NP	--	SB	502
#501	S	--	RC	500
#502	S	--	--	0
#EOS 1
`

// Er sagt " ganz gut " .
const quoted = `#BOS 2
Er	PPER	Nom.Sg.Masc	SB	501
sagt	VVFIN	3.Sg.Pres.Ind	HD	501
"	$(	--	--	0
ganz	ADV	--	MO	500
gut	ADJD	Pos	HD	500
"	$(	--	--	0
.	$.	--	--	0
#500	AP	--	OA	501
#501	S	--	--	0
#EOS 2
`

func readTree(t *testing.T, text string) *types.Tree {
	trees, err := export.Read(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, trees, 1)
	return trees[0]
}

// terminal returns the node of the terminal at surface position num
func terminal(t *types.Tree, num int) int {
	return t.OrderedTerminals()[num-1]
}

func parentTag(t *types.Tree, num int) string {
	return t.Nodes[t.Nodes[terminal(t, num)].Parent].Tag
}

func childWords(t *types.Tree, n int) []string {
	var words []string
	for _, c := range t.Nodes[n].Children {
		if t.IsTerminal(c) {
			words = append(words, t.Nodes[c].Word)
		} else {
			words = append(words, t.Nodes[c].Tag)
		}
	}
	return words
}

func TestLowerPunctuation(t *testing.T) {
	tree := readTree(t, relativeClause)
	require.NoError(t, LowerPunctuation(tree))
	require.NoError(t, tree.Validate())

	np := tree.Nodes[terminal(tree, 3)].Parent
	assert.Equal(t, "NP", tree.Nodes[np].Tag)
	assert.Equal(t, []string{"Der", "Hund", ",", "S"}, childWords(tree, np))

	s := tree.Nodes[terminal(tree, 6)].Parent
	assert.Equal(t, []string{"NP", ",", "beißt"}, childWords(tree, s))

	// nothing surrounds the final period
	assert.Equal(t, tree.Root, tree.Nodes[terminal(tree, 8)].Parent)
	assert.Equal(t, []string{"S", "."}, childWords(tree, tree.Root))
}

func TestBalancePunctuation(t *testing.T) {
	tree := readTree(t, quoted)
	require.NoError(t, LowerPunctuation(tree))
	// the opening quote is lowered into S, the closing one is not
	assert.Equal(t, "S", parentTag(tree, 3))
	assert.Equal(t, types.TOP_LABEL, parentTag(tree, 6))

	require.NoError(t, BalancePunctuation(tree))
	require.NoError(t, tree.Validate())
	assert.Equal(t, "S", parentTag(tree, 6))
	s := tree.Nodes[terminal(tree, 6)].Parent
	assert.Equal(t, []string{"Er", "sagt", `"`, "AP", `"`}, childWords(tree, s))
	assert.Equal(t, types.TOP_LABEL, parentTag(tree, 7))
}

func TestBalanceOpeningSign(t *testing.T) {
	// (VROOT (S Er sagt "(") (NP Ja ")"))
	tree := types.NewTree(3)
	tree.Root = tree.AddNode(types.Node{Tag: types.TOP_LABEL, Edge: types.DEFAULT_EDGE})
	s := tree.AddNode(types.Node{Tag: "S", Edge: types.DEFAULT_EDGE})
	np := tree.AddNode(types.Node{Tag: "NP", Edge: types.DEFAULT_EDGE})
	tree.AppendChild(tree.Root, s)
	tree.AppendChild(tree.Root, np)
	for i, word := range []string{"Er", "sagt", "(", "Ja", ")"} {
		n := tree.AddNode(types.Node{Tag: "X", Edge: types.DEFAULT_EDGE, Word: word, Num: i + 1})
		if i < 3 {
			tree.AppendChild(s, n)
		} else {
			tree.AppendChild(np, n)
		}
	}
	require.NoError(t, BalancePunctuation(tree))
	assert.Equal(t, []string{"(", "Ja", ")"}, childWords(tree, np))
	assert.Equal(t, []string{"Er", "sagt"}, childWords(tree, s))
}

func TestBalanceKeepsOnlyChild(t *testing.T) {
	// (VROOT (X "(" Ja) (Y ")")): the closing sign may not leave Y empty
	tree := types.NewTree(4)
	tree.Root = tree.AddNode(types.Node{Tag: types.TOP_LABEL, Edge: types.DEFAULT_EDGE})
	x := tree.AddNode(types.Node{Tag: "X", Edge: types.DEFAULT_EDGE})
	y := tree.AddNode(types.Node{Tag: "Y", Edge: types.DEFAULT_EDGE})
	tree.AppendChild(tree.Root, x)
	tree.AppendChild(tree.Root, y)
	tree.AppendChild(x, tree.AddNode(types.Node{Tag: "$(", Edge: types.DEFAULT_EDGE, Word: "(", Num: 1}))
	tree.AppendChild(x, tree.AddNode(types.Node{Tag: "ITJ", Edge: types.DEFAULT_EDGE, Word: "Ja", Num: 2}))
	tree.AppendChild(y, tree.AddNode(types.Node{Tag: "$(", Edge: types.DEFAULT_EDGE, Word: ")", Num: 3}))

	require.NoError(t, BalancePunctuation(tree))
	require.NoError(t, tree.Validate())
	assert.Equal(t, []string{")"}, childWords(tree, y))
	assert.Equal(t, []string{"(", "Ja"}, childWords(tree, x))
}

func negraFinder(t *testing.T) headfinder.HeadFinder {
	finder, err := headfinder.New(headfinder.HF_NEGRA)
	require.NoError(t, err)
	return finder
}

func TestHeadLabeler(t *testing.T) {
	tree := readTree(t, relativeClause)
	labeler := &HeadLabeler{Finder: negraFinder(t)}
	require.NoError(t, labeler.Apply(tree))

	edges := make([]string, 0, 8)
	for _, term := range tree.OrderedTerminals() {
		edges = append(edges, tree.Nodes[term].Edge)
	}
	assert.Equal(t, []string{"NK", "NK-HD", "--", "SB", "HD", "--", "HD", "--"}, edges)
	s := tree.Nodes[tree.Root].Children[0]
	assert.Equal(t, "S", tree.Nodes[s].Tag)
	assert.Equal(t, headfinder.HEAD_EDGE, tree.Nodes[s].Edge)

	// labels with an HD part are left alone
	require.NoError(t, labeler.Apply(tree))
	assert.Equal(t, "NK-HD", tree.Nodes[terminal(tree, 2)].Edge)
	assert.Equal(t, headfinder.HEAD_EDGE, tree.Nodes[s].Edge)

	// the labels alone now determine the heads
	marks, err := headfinder.MarkHeads(headfinder.Label{}, tree)
	require.NoError(t, err)
	assert.True(t, marks.IsHead(tree, terminal(tree, 2)))
}

func TestNew(t *testing.T) {
	chain, err := New(ParseList(" punctlowerer, headlabeler ,"), negraFinder(t))
	require.NoError(t, err)
	assert.Len(t, chain, 3)

	tree := readTree(t, relativeClause)
	require.NoError(t, chain.Apply(tree))
	assert.Equal(t, "NP", parentTag(tree, 3))
	assert.Equal(t, "NK-HD", tree.Nodes[terminal(tree, 2)].Edge)

	empty, err := New(nil, nil)
	require.NoError(t, err)
	assert.NoError(t, empty.Apply(tree))

	_, err = New([]string{HEAD_LABELER}, nil)
	assert.ErrorIs(t, err, headfinder.ErrMissingHeadFinder)

	_, err = New([]string{"lowercase"}, nil)
	var unknown *util.UnknownTaskError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "lowercase", unknown.Task)
	assert.Equal(t, []string{HEAD_LABELER, PUNCT_LOWERER}, Names())
}
