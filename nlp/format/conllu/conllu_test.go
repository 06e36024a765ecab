package conllu

import (
	"errors"
	"strings"
	"testing"

	"treedep/nlp/format/conll"
	nlp "treedep/nlp/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spanish = `# sent_id = 7
# text = Vámonos al mar
1-2	Vámonos	_	_	_	_	_	_	_	_
1	Vamos	ir	VERB	_	Mood=Imp|Number=Plur	0	root	_	_
2	nos	nosotros	PRON	_	Case=Acc	1	obj	_	_
3-4	al	_	_	_	_	_	_	_	_
3	a	a	ADP	_	_	5	case	_	_
4	el	el	DET	_	Definite=Def	5	det	_	_
4.1	ido	ir	VERB	_	_	_	_	1:conj	_
5	mar	mar	NOUN	_	Gender=Masc	1	obl	_	SpaceAfter=No

`

func TestRead(t *testing.T) {
	sents, err := Read(strings.NewReader(spanish))
	require.NoError(t, err)
	require.Len(t, sents, 1)
	sent := sents[0]
	assert.Len(t, sent.Deps, 5)
	assert.Equal(t, []string{"Vámonos", "al", "mar"}, sent.Tokens)
	assert.Equal(t, []MultiToken{{1, 2, "Vámonos"}, {3, 4, "al"}}, sent.MultiTokens)
	assert.Equal(t, 1, sent.Deps[4].TokenID)
	assert.Equal(t, 2, sent.Deps[5].TokenID)
	assert.Equal(t, "Imp", sent.Deps[1].Feats["Mood"])
	assert.Equal(t, "SpaceAfter=No", sent.Deps[5].Misc)
	id, exists := sent.SentID()
	assert.True(t, exists)
	assert.Equal(t, 7, id)

	forest, err := ConllU2Forest(sent, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, forest.ID)
	assert.Equal(t, []int{1}, forest.Roots())
	assert.Equal(t, "VERB", forest.Token(1).POS)
	rel, _ := forest.Relation(5)
	assert.Equal(t, nlp.DepRel("obl"), rel)
}

func TestWriteRoundTrip(t *testing.T) {
	sents, err := Read(strings.NewReader(spanish))
	require.NoError(t, err)
	var b strings.Builder
	require.NoError(t, Write(&b, sents))
	// the empty node is dropped on reading
	expected := strings.Replace(spanish, "4.1\tido\tir\tVERB\t_\t_\t_\t_\t1:conj\t_\n", "", 1)
	assert.Equal(t, expected, b.String())
}

func TestForest2ConllU(t *testing.T) {
	forest := nlp.NewForest(3)
	forest.AddNode(nlp.TaggedToken{Token: "der", POS: "ART"})
	forest.AddNode(nlp.TaggedToken{Token: "Hund", POS: "NN"})
	forest.AddNode(nlp.TaggedToken{Token: "bellt", POS: "VVFIN"})
	require.NoError(t, forest.AddEdge(1, 2, "NK"))
	require.NoError(t, forest.AddEdge(2, 3, "SB"))

	var b strings.Builder
	require.NoError(t, WriteSentence(&b, Forest2ConllU(forest)))
	assert.Equal(t, `# sent_id = 3
# text = der Hund bellt
1	der	_	_	ART	_	2	NK	_	_
2	Hund	_	_	NN	_	3	SB	_	_
3	bellt	_	_	VVFIN	_	0	root	_	_

`, b.String())

	sents, err := Read(strings.NewReader(b.String()))
	require.NoError(t, err)
	forests, err := ConllU2ForestCorpus(sents)
	require.NoError(t, err)
	require.Len(t, forests, 1)
	assert.True(t, forest.Equal(forests[0]))
}

func TestReadErrors(t *testing.T) {
	for name, input := range map[string]string{
		"short row":    "1\tder\t_\tDET\n",
		"bad head":     "1\tder\t_\tDET\t_\t_\tx\tdet\t_\t_\n",
		"bad span":     "2-1\tzum\t_\t_\t_\t_\t_\t_\t_\t_\n",
		"duplicate id": "1\ta\t_\tX\t_\t_\t0\troot\t_\t_\n1\tb\t_\tX\t_\t_\t1\tdep\t_\t_\n",
	} {
		_, err := Read(strings.NewReader(input))
		var syntaxErr *conll.SyntaxError
		assert.True(t, errors.As(err, &syntaxErr), name)
	}
}
