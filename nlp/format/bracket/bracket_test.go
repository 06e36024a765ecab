package bracket

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nlp "treedep/nlp/types"
)

func TestSplitLabel(t *testing.T) {
	for label, expected := range map[string][2]string{
		"NP-SBJ":     {"NP", "SBJ"},
		"NP-SBJ-1":   {"NP-1", "SBJ"},
		"NP-SBJ=2":   {"NP=2", "SBJ"},
		"NP":         {"NP", nlp.DEFAULT_EDGE},
		"-NONE-":     {"-NONE-", nlp.DEFAULT_EDGE},
		"NP-1":       {"NP-1", nlp.DEFAULT_EDGE},
		"VVPP-HD":    {"VVPP", "HD"},
		"PP-LOC-CLR": {"PP", "LOC-CLR"},
	} {
		tag, edge := SplitLabel(label)
		assert.Equal(t, expected[0], tag, label)
		assert.Equal(t, expected[1], edge, label)
	}
}

func TestReadContinuous(t *testing.T) {
	input := `( (S (NP-SBJ (DT The) (NN dog))
   (VP (VBZ barks))
   (. .)) )
(S (NP (PRP It)) (VP (VBD rained)))`
	trees, err := Read(strings.NewReader(input), false)
	require.NoError(t, err)
	require.Len(t, trees, 2)

	first := trees[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, nlp.TOP_LABEL, first.Nodes[first.Root].Tag)
	s := first.Nodes[first.Nodes[first.Root].Children[0]]
	assert.Equal(t, "S", s.Tag)
	np := first.Nodes[s.Children[0]]
	assert.Equal(t, "NP", np.Tag)
	assert.Equal(t, "SBJ", np.Edge)
	var words []string
	for _, term := range first.OrderedTerminals() {
		words = append(words, first.Nodes[term].Word)
	}
	assert.Equal(t, []string{"The", "dog", "barks", "."}, words)

	second := trees[1]
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "S", second.Nodes[second.Root].Tag)
}

func TestReadDiscontinuous(t *testing.T) {
	input := "(VROOT (S (VP-OC (PROAV-MO 0=Darüber) (VVPP-HD 3=nachgedacht)) (VMFIN-HD 1=muss) (PPER-SB 2=er)))\n"
	trees, err := Read(strings.NewReader(input), true)
	require.NoError(t, err)
	require.Len(t, trees, 1)
	tree := trees[0]
	assert.False(t, tree.IsContinuous())
	var words []string
	for _, term := range tree.OrderedTerminals() {
		words = append(words, tree.Nodes[term].Word)
	}
	assert.Equal(t, []string{"Darüber", "muss", "er", "nachgedacht"}, words)
	// writing back gives the same bracketing
	assert.Equal(t, strings.TrimSpace(input), tree.Bracketed(nil))
}

func TestReadErrors(t *testing.T) {
	for name, input := range map[string]string{
		"unbalanced":   "(S (NP (DT the)",
		"no tag":       "(S ((DT the)))",
		"empty":        "(S ())",
		"word no tag":  "( the )",
		"two words":    "(S (DT the dog))",
		"bad position": "(S (DT 0=the) (NN 2=dog))",
	} {
		_, err := Read(strings.NewReader(input), name == "bad position")
		assert.Error(t, err, name)
		var syntaxErr *SyntaxError
		assert.True(t, errors.As(err, &syntaxErr), name)
	}
	_, err := Read(strings.NewReader("(S (DT the))"), true)
	assert.Error(t, err)
}
