// Package conllu reads and writes dependency forests in the CoNLL-U format.
// Multiword token lines are kept as surface tokens, empty nodes are skipped.
// For a description see
// https://universaldependencies.org/format.html
package conllu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"treedep/nlp/format/conll"
	nlp "treedep/nlp/types"
)

const (
	FIELD_SEPARATOR = '\t'
	NUM_FIELDS      = 10
	DEPS_SEPARATOR  = "|"
	ROOT_RELATION   = "root"
	SENT_ID_PREFIX  = "# sent_id = "
	TEXT_PREFIX     = "# text = "
)

type Row struct {
	ID      int
	Form    string
	Lemma   string
	UPosTag string
	XPosTag string
	Feats   conll.Features
	FeatStr string
	Head    int
	DepRel  string
	Deps    []string
	Misc    string
	// TokenID is the index of the surface token the row belongs to
	TokenID int
}

func (r Row) String() string {
	fields := []string{
		strconv.Itoa(r.ID),
		r.Form,
		r.Lemma,
		r.UPosTag,
		r.XPosTag,
		r.FeatStr,
		strconv.Itoa(r.Head),
		r.DepRel,
		strings.Join(r.Deps, DEPS_SEPARATOR),
		r.Misc,
	}
	for i, field := range fields {
		if len(field) == 0 {
			fields[i] = conll.EMPTY_FIELD
		}
	}
	return strings.Join(fields, string(FIELD_SEPARATOR))
}

// A MultiToken spans the syntactic words First..Last
type MultiToken struct {
	First, Last int
	Form        string
}

// A Sentence is a map of Rows using their ids, with its comments and
// multiword tokens
type Sentence struct {
	Deps        map[int]Row
	Tokens      []string
	MultiTokens []MultiToken
	Comments    []string
}

func NewSentence() *Sentence {
	return &Sentence{
		Deps:     make(map[int]Row),
		Comments: make([]string, 0, 2),
	}
}

// SentID returns the value of the sent_id comment, if numeric
func (s *Sentence) SentID() (int, bool) {
	for _, comment := range s.Comments {
		if value, found := strings.CutPrefix(comment, SENT_ID_PREFIX); found {
			id, err := strconv.Atoi(strings.TrimSpace(value))
			return id, err == nil
		}
	}
	return 0, false
}

type Sentences []*Sentence

func ParseRow(record []string) (Row, error) {
	var row Row
	if len(record) != NUM_FIELDS {
		return row, fmt.Errorf("Expected %d fields, got %d", NUM_FIELDS, len(record))
	}
	id, err := conll.ParseInt(record[0])
	if err != nil {
		return row, fmt.Errorf("Error parsing ID field (%s): %w", record[0], err)
	}
	row.ID = id
	row.UPosTag = conll.ParseString(record[3])
	row.XPosTag = conll.ParseString(record[4])
	if row.UPosTag == "SYM" || row.UPosTag == "PUNCT" {
		// symbols are taken as is
		row.Form = record[1]
	} else {
		row.Form = conll.ParseString(record[1])
	}
	row.Lemma = conll.ParseString(record[2])
	if row.Feats, err = conll.ParseFeatures(record[5]); err != nil {
		return row, fmt.Errorf("Error parsing FEATS field (%s): %w", record[5], err)
	}
	row.FeatStr = conll.ParseString(record[5])
	if row.Head, err = conll.ParseInt(record[6]); err != nil {
		return row, fmt.Errorf("Error parsing HEAD field (%s): %w", record[6], err)
	}
	row.DepRel = conll.ParseString(record[7])
	if deps := conll.ParseString(record[8]); len(deps) > 0 {
		row.Deps = strings.Split(deps, DEPS_SEPARATOR)
	}
	row.Misc = conll.ParseString(record[9])
	return row, nil
}

func ParseTokenRow(record []string) (MultiToken, error) {
	var token MultiToken
	if len(record) < 2 {
		return token, errors.New("Empty TOKEN field for token row")
	}
	token.Form = conll.ParseString(record[1])
	if token.Form == "" {
		return token, errors.New("Empty TOKEN field for token row")
	}
	first, last, found := strings.Cut(record[0], "-")
	if !found {
		return token, fmt.Errorf("Error parsing ID span field (%s)", record[0])
	}
	var err error
	if token.First, err = strconv.Atoi(first); err != nil {
		return token, fmt.Errorf("Error parsing ID span field (%s): %w", record[0], err)
	}
	if token.Last, err = strconv.Atoi(last); err != nil {
		return token, fmt.Errorf("Error parsing ID span field (%s): %w", record[0], err)
	}
	if token.Last <= token.First {
		return token, fmt.Errorf("Error parsing ID span field (%s): empty span", record[0])
	}
	return token, nil
}

func Read(reader io.Reader) (Sentences, error) {
	var (
		sentences Sentences
		current   *Sentence
		pending   int // words still covered by the last multiword token
		lineNum   int
	)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if current != nil && len(current.Deps) > 0 {
				sentences = append(sentences, current)
			}
			current, pending = nil, 0
			continue
		}
		if current == nil {
			current = NewSentence()
		}
		if line[0] == '#' {
			current.Comments = append(current.Comments, line)
			continue
		}
		record := strings.Split(line, string(FIELD_SEPARATOR))
		switch {
		case strings.Contains(record[0], "."):
			continue
		case strings.Contains(record[0], "-"):
			token, err := ParseTokenRow(record)
			if err != nil {
				return nil, &conll.SyntaxError{Line: lineNum, Err: err}
			}
			current.MultiTokens = append(current.MultiTokens, token)
			current.Tokens = append(current.Tokens, token.Form)
			pending = token.Last - token.First + 1
		default:
			row, err := ParseRow(record)
			if err != nil {
				return nil, &conll.SyntaxError{Line: lineNum, Err: err}
			}
			if _, exists := current.Deps[row.ID]; exists {
				return nil, &conll.SyntaxError{Line: lineNum, Err: fmt.Errorf("duplicate ID %d", row.ID)}
			}
			if pending > 0 {
				pending--
			} else {
				current.Tokens = append(current.Tokens, row.Form)
			}
			row.TokenID = len(current.Tokens) - 1
			current.Deps[row.ID] = row
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current != nil && len(current.Deps) > 0 {
		sentences = append(sentences, current)
	}
	return sentences, nil
}

func ReadFile(filename string) (Sentences, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

func WriteSentence(writer io.Writer, sent *Sentence) error {
	var b strings.Builder
	for _, comment := range sent.Comments {
		b.WriteString(comment)
		b.WriteByte('\n')
	}
	multi := make(map[int]MultiToken, len(sent.MultiTokens))
	for _, token := range sent.MultiTokens {
		multi[token.First] = token
	}
	for i := 1; i <= len(sent.Deps); i++ {
		if token, exists := multi[i]; exists {
			fmt.Fprintf(&b, "%d-%d\t%s\t_\t_\t_\t_\t_\t_\t_\t_\n", token.First, token.Last, token.Form)
		}
		b.WriteString(sent.Deps[i].String())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(writer, b.String())
	return err
}

func Write(writer io.Writer, sents Sentences) error {
	for _, sent := range sents {
		if err := WriteSentence(writer, sent); err != nil {
			return err
		}
	}
	return nil
}

func WriteFile(filename string, sents Sentences) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, sents)
}

// Forest2ConllU renders a forest; treebank tags go to XPOS and roots get
// head 0 and the relation root
func Forest2ConllU(forest *nlp.Forest) *Sentence {
	sent := NewSentence()
	sent.Comments = append(sent.Comments, SENT_ID_PREFIX+strconv.Itoa(forest.ID))
	tokens := forest.Sentence().Tokens()
	sent.Comments = append(sent.Comments, TEXT_PREFIX+strings.Join(tokens, " "))
	sent.Tokens = tokens
	for _, id := range forest.Nodes() {
		token := forest.Token(id)
		row := Row{
			ID:      id,
			Form:    token.Token,
			XPosTag: token.POS,
			DepRel:  ROOT_RELATION,
			TokenID: id - 1,
		}
		if head, exists := forest.Head(id); exists {
			rel, _ := forest.Relation(id)
			row.Head = head
			row.DepRel = string(rel)
		}
		sent.Deps[id] = row
	}
	return sent
}

// ConllU2Forest rebuilds a forest over the syntactic words of sent. The tag is
// XPOS, or UPOS if XPOS is empty. The sent_id comment overrides id.
func ConllU2Forest(sent *Sentence, id int) (*nlp.Forest, error) {
	if sentID, exists := sent.SentID(); exists {
		id = sentID
	}
	forest := nlp.NewForest(id)
	for i := 1; i <= len(sent.Deps); i++ {
		row, exists := sent.Deps[i]
		if !exists {
			return nil, fmt.Errorf("sentence %d: missing row %d of %d", id, i, len(sent.Deps))
		}
		tag := row.XPosTag
		if tag == "" {
			tag = row.UPosTag
		}
		forest.AddNode(nlp.TaggedToken{Token: row.Form, POS: tag})
	}
	for i := 1; i <= len(sent.Deps); i++ {
		row := sent.Deps[i]
		if row.Head == 0 {
			continue
		}
		if err := forest.AddEdge(i, row.Head, nlp.DepRel(row.DepRel)); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", id, err)
		}
	}
	return forest, nil
}

func ConllU2ForestCorpus(sents Sentences) ([]*nlp.Forest, error) {
	forests := make([]*nlp.Forest, len(sents))
	for i, sent := range sents {
		forest, err := ConllU2Forest(sent, i+1)
		if err != nil {
			return nil, err
		}
		forests[i] = forest
	}
	return forests, nil
}
