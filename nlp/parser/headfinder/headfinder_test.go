package headfinder

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treedep/nlp/types"
	"treedep/util"
)

func ptbFinder(t *testing.T, wh bool) *PTB {
	rules, err := BuiltinRules(HF_PTB)
	require.NoError(t, err)
	return NewPTB(rules, wh)
}

func findHead(t *testing.T, finder HeadFinder, category string, tags ...string) int {
	edges := make([]string, len(tags))
	for i := range edges {
		edges[i] = types.DEFAULT_EDGE
	}
	head, err := finder.FindHead(category, tags, edges)
	require.NoError(t, err)
	return head
}

func TestPureTag(t *testing.T) {
	assert.Equal(t, "NP", pureTag("NP-SBJ-1"))
	assert.Equal(t, "NP", pureTag("NP=2"))
	assert.Equal(t, "-NONE-", pureTag("-NONE-"))
	assert.True(t, Matches("np-sbj", "NP"))
	assert.False(t, Matches("NNP", "NP"))
	assert.True(t, WHMatches("WHNP", "NP"))
	assert.False(t, Matches("WHNP", "NP"))
}

func TestReadRules(t *testing.T) {
	input := `% comment
# another comment
vp left-to-right vbd vp
VP right-to-left
X up-down NN
short
`
	rules, err := ReadRules(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rules["VP"], 2)
	assert.Equal(t, Rule{LeftToRight, []string{"VBD", "VP"}}, rules["VP"][0])
	assert.Equal(t, RightToLeft, rules["VP"][1].Direction)
	assert.Empty(t, rules["VP"][1].Labels)
	assert.NotContains(t, rules, "X")
	assert.Equal(t, []string{"VP"}, rules.Categories())

	var out strings.Builder
	require.NoError(t, rules.Write(&out))
	assert.Equal(t, "VP left-to-right VBD VP\nVP right-to-left \n", out.String())
}

func TestRuleBased(t *testing.T) {
	rules, err := ReadRules(strings.NewReader(`PP right-to-left IN TO
S left-to-right VP
S left-to-right NP
`))
	require.NoError(t, err)
	finder := NewRuleBased(rules)
	// nearest match in the rule's direction wins
	assert.Equal(t, 2, findHead(t, finder, "PP", "IN", "NP", "TO", "NP"))
	// earlier rules take priority over position
	assert.Equal(t, 1, findHead(t, finder, "S", "NP-SBJ", "VP", "."))
	assert.Equal(t, 0, findHead(t, finder, "S", "NP", "ADVP"))
	// no rule matches, no rule exists: rightmost
	assert.Equal(t, 1, findHead(t, finder, "S", "ADVP", "ADJP"))
	assert.Equal(t, 2, findHead(t, finder, "FOO", "A", "B", "C"))

	_, err = finder.FindHead("S", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyChildren)
}

func TestPTBNounPhrase(t *testing.T) {
	finder := ptbFinder(t, false)
	assert.Equal(t, 2, findHead(t, finder, "NP", "DT", "JJ", "NN"))
	assert.Equal(t, 1, findHead(t, finder, "NP", "NNP", "POS"))
	assert.Equal(t, 1, findHead(t, finder, "NP", "NP", "NNS", "PP"))
	assert.Equal(t, 1, findHead(t, finder, "NP", "DT", "NP", "PP", "NP"))
	assert.Equal(t, 1, findHead(t, finder, "NP", "DT", "ADJP"))
	assert.Equal(t, 1, findHead(t, finder, "NP", "DT", "CD"))
	assert.Equal(t, 1, findHead(t, finder, "NP", "DT", "JJ"))
	assert.Equal(t, 1, findHead(t, finder, "NP", "DT", "DT"))
	assert.Equal(t, 0, findHead(t, finder, "NP-SBJ", "PRP"))
}

func TestPTBCoordination(t *testing.T) {
	finder := ptbFinder(t, false)
	// the embedded NP step finds the first conjunct, no override needed
	assert.Equal(t, 0, findHead(t, finder, "NP", "NP", "CC", "NP"))
	assert.Equal(t, 0, findHead(t, finder, "NP", "NN", "CC", "NN"))
	assert.Equal(t, 2, findHead(t, finder, "NP", "NN", "CC", "NN", "CC", "NN"))
	assert.Equal(t, 0, findHead(t, finder, "NP", "NN", ",", "CC", "NN"))
	// only punctuation before the coordinator keeps the original head
	assert.Equal(t, 2, findHead(t, finder, "NP", ",", "CC", "NN"))
	assert.Equal(t, 0, findHead(t, finder, "UCP", "NN", "CC", "JJ"))
	assert.Equal(t, 0, findHead(t, finder, "UCP", "NN", "CONJP", "JJ"))
}

func TestPTBRules(t *testing.T) {
	finder := ptbFinder(t, false)
	assert.Equal(t, 1, findHead(t, finder, "S", "NP-SBJ", "VP", "."))
	assert.Equal(t, 0, findHead(t, finder, "VP", "VBD", "NP", "PP"))
	assert.Equal(t, 0, findHead(t, finder, "PP", "IN", "NP"))
	assert.Equal(t, 0, findHead(t, finder, "SBAR", "WHNP", "S"))
	assert.Equal(t, 1, findHead(t, finder, "SBAR", "-NONE-", "S"))
}

func TestDPTB(t *testing.T) {
	rules, err := ReadRules(strings.NewReader("SQ left-to-right NP\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, findHead(t, NewPTB(rules, false), "SQ", "WHNP", "VBZ"))
	assert.Equal(t, 0, findHead(t, NewPTB(rules, true), "SQ", "WHNP", "VBZ"))
}

func TestNegra(t *testing.T) {
	rules, err := BuiltinRules(HF_NEGRA)
	require.NoError(t, err)
	finder := NewNegra(rules)
	head, err := finder.FindHead("S", []string{"PPER", "VVFIN", "ADV"}, []string{"SB", "HD", "MO"})
	require.NoError(t, err)
	assert.Equal(t, 1, head)
	head, err = finder.FindHead("NP", []string{"ART", "NN"}, []string{"NK", "NK"})
	require.NoError(t, err)
	assert.Equal(t, 1, head)
}

func TestNegraVirtualRoot(t *testing.T) {
	rules, err := BuiltinRules(HF_NEGRA)
	require.NoError(t, err)
	require.NotEmpty(t, rules.For("VROOT"))
	finder := NewNegra(rules)
	for _, tc := range []struct {
		tags []string
		head int
	}{
		{[]string{"S", "$."}, 0},
		{[]string{"$(", "NP", "$("}, 1},
		{[]string{"ITJ", "$."}, 0},
		{[]string{"$,", "ADV", "ITJ", "$."}, 2},
		{[]string{"NP", "$,", "S", "$."}, 2},
		{[]string{"$.", "$."}, 1},
	} {
		edges := make([]string, len(tc.tags))
		for i := range edges {
			edges[i] = "--"
		}
		head, err := finder.FindHead("VROOT", tc.tags, edges)
		require.NoError(t, err)
		assert.Equal(t, tc.head, head, "%v", tc.tags)
	}
}

func TestLabel(t *testing.T) {
	finder := Label{}
	head, err := finder.FindHead("VP", []string{"NP", "VVPP"}, []string{"OA", "OC-HD"})
	require.NoError(t, err)
	assert.Equal(t, 1, head)
	_, err = finder.FindHead("VP", []string{"NP", "VVPP"}, []string{"OA", "HDX"})
	assert.ErrorIs(t, err, ErrNoHead)
}

type countingFinder struct {
	HeadFinder
	calls int
}

func (c *countingFinder) FindHead(category string, tags, edges []string) (int, error) {
	c.calls++
	return c.HeadFinder.FindHead(category, tags, edges)
}

func TestCached(t *testing.T) {
	counting := &countingFinder{HeadFinder: ptbFinder(t, false)}
	cached, err := NewCached(counting, 16)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 2, findHead(t, cached, "NP", "DT", "JJ", "NN"))
	}
	assert.Equal(t, 1, counting.calls)
	assert.Equal(t, 1, findHead(t, cached, "NP", "DT", "NN"))
	assert.Equal(t, 2, counting.calls)
	assert.Equal(t, 2, cached.Len())
}

func TestFactory(t *testing.T) {
	finder, err := New("negra")
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, finder)
	rules, ok := RulesOf(finder)
	require.True(t, ok)
	assert.NotEmpty(t, rules["NP"])

	finder, err = New("dptb:cache=0")
	require.NoError(t, err)
	require.IsType(t, &PTB{}, finder)
	assert.True(t, finder.(*PTB).WH)

	_, err = New("")
	assert.ErrorIs(t, err, ErrMissingHeadFinder)

	_, err = New("tiger")
	var unknown *util.UnknownTaskError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "tiger", unknown.Task)

	_, err = New("ptb:depth=3")
	assert.Error(t, err)
	_, err = New("ptb:cache=-1")
	assert.Error(t, err)
	_, err = New("label:rules=x.headrules")
	assert.Error(t, err)
}

func TestMarkHeads(t *testing.T) {
	tree := types.NewTree(3)
	root := tree.AddNode(types.Node{Tag: "S"})
	tree.Root = root
	np := tree.AddNode(types.Node{Tag: "NP", Edge: "SBJ"})
	vp := tree.AddNode(types.Node{Tag: "VP"})
	det := tree.AddNode(types.Node{Tag: "DT", Word: "the", Num: 1})
	noun := tree.AddNode(types.Node{Tag: "NN", Word: "dog", Num: 2})
	verb := tree.AddNode(types.Node{Tag: "VBZ", Word: "barks", Num: 3})
	tree.AppendChild(root, np)
	tree.AppendChild(root, vp)
	tree.AppendChild(np, det)
	tree.AppendChild(np, noun)
	tree.AppendChild(vp, verb)

	marks, err := MarkHeads(ptbFinder(t, false), tree)
	require.NoError(t, err)
	assert.Equal(t, types.HeadMarks{1, 1, 0, types.NO_NODE, types.NO_NODE, types.NO_NODE}, marks)
	again, err := MarkHeads(ptbFinder(t, false), tree)
	require.NoError(t, err)
	assert.Equal(t, marks, again)

	_, err = MarkHeads(Label{}, tree)
	assert.ErrorIs(t, err, ErrNoHead)
}
