// Package conll reads and writes dependency forests in the CoNLL-X format
// For a description see http://ilk.uvt.nl/conll/#dataformat
package conll

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	nlp "treedep/nlp/types"
)

const (
	FIELD_SEPARATOR      = '\t'
	NUM_FIELDS           = 10
	MIN_FIELDS           = 8
	FEATURES_SEPARATOR   = "|"
	FEATURE_SEPARATOR    = "="
	FEATURE_CONCAT_DELIM = ","
	EMPTY_FIELD          = "_"
)

type Features map[string]string

func (f Features) String() string {
	return FormatFeatures(f)
}

func FormatFeatures(feat map[string]string) string {
	if len(feat) == 0 {
		return EMPTY_FIELD
	}
	strs := make([]string, 0, len(feat))
	for k, v := range feat {
		strs = append(strs, fmt.Sprintf("%v%v%v", k, FEATURE_SEPARATOR, v))
	}
	sort.Strings(strs)
	return strings.Join(strs, FEATURES_SEPARATOR)
}

// A Row is a single parsed row of a conll data set
type Row struct {
	ID      int
	Form    string
	Lemma   string
	CPosTag string
	PosTag  string
	Feats   Features
	FeatStr string
	Head    int
	DepRel  string
}

func field(value string) string {
	if value == "" {
		return EMPTY_FIELD
	}
	return value
}

func (r Row) String() string {
	feats := r.FeatStr
	if feats == "" {
		feats = FormatFeatures(r.Feats)
	}
	fields := []string{
		strconv.Itoa(r.ID),
		r.Form,
		field(r.Lemma),
		field(r.CPosTag),
		field(r.PosTag),
		feats,
		strconv.Itoa(r.Head),
		field(r.DepRel),
		EMPTY_FIELD,
		EMPTY_FIELD}
	return strings.Join(fields, string(FIELD_SEPARATOR))
}

// A Sentence is a map of Rows using their ids
type Sentence map[int]Row

type Sentences []Sentence

func ParseInt(value string) (int, error) {
	if value == EMPTY_FIELD {
		return 0, nil
	}
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

func ParseString(value string) string {
	if value == EMPTY_FIELD {
		return ""
	}
	return value
}

func ParseFeatures(featuresStr string) (Features, error) {
	var featureMap Features
	if featuresStr == EMPTY_FIELD {
		return featureMap, nil
	}

	featureList := strings.Split(featuresStr, FEATURES_SEPARATOR)
	featureMap = make(Features, len(featureList))
	for _, featureStr := range featureList {
		featName, featValue, found := strings.Cut(featureStr, FEATURE_SEPARATOR)
		if !found {
			return nil, errors.New("Wrong number of fields for split of feature " + featureStr)
		}
		if existing, exists := featureMap[featName]; exists {
			featureMap[featName] = existing + FEATURE_CONCAT_DELIM + featValue
		} else {
			featureMap[featName] = featValue
		}
	}
	return featureMap, nil
}

func ParseRow(record []string) (Row, error) {
	var row Row
	if len(record) < MIN_FIELDS {
		return row, fmt.Errorf("Expected at least %d fields, got %d", MIN_FIELDS, len(record))
	}
	id, err := ParseInt(record[0])
	if err != nil {
		return row, fmt.Errorf("Error parsing ID field (%s): %w", record[0], err)
	}
	row.ID = id

	row.Form = ParseString(record[1])
	if row.Form == "" {
		return row, errors.New("Empty FORM field")
	}
	row.Lemma = ParseString(record[2])

	row.CPosTag = ParseString(record[3])
	if row.CPosTag == "" {
		return row, errors.New("Empty CPOSTAG field")
	}
	row.PosTag = ParseString(record[4])
	if row.PosTag == "" {
		return row, errors.New("Empty POSTAG field")
	}

	head, err := ParseInt(record[6])
	if err != nil {
		return row, fmt.Errorf("Error parsing HEAD field (%s): %w", record[6], err)
	}
	row.Head = head

	row.DepRel = ParseString(record[7])
	if row.DepRel == "" {
		return row, errors.New("Empty DEPREL field")
	}

	features, err := ParseFeatures(record[5])
	if err != nil {
		return row, fmt.Errorf("Error parsing FEATS field (%s): %w", record[5], err)
	}
	row.Feats = features
	row.FeatStr = ParseString(record[5])
	return row, nil
}

// SyntaxError locates a malformed row
type SyntaxError struct {
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("conll line %d: %v", e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Read reads blank-line separated sentences. Fields are split on tabs only;
// forms may contain quotes and spaces.
func Read(reader io.Reader) (Sentences, error) {
	var (
		sentences   Sentences
		currentSent Sentence
		lineNum     int
	)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if currentSent != nil {
				sentences = append(sentences, currentSent)
				currentSent = nil
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		row, err := ParseRow(strings.Split(line, string(FIELD_SEPARATOR)))
		if err != nil {
			return nil, &SyntaxError{lineNum, err}
		}
		if currentSent == nil {
			currentSent = make(Sentence)
		}
		if _, exists := currentSent[row.ID]; exists {
			return nil, &SyntaxError{lineNum, fmt.Errorf("duplicate ID %d", row.ID)}
		}
		currentSent[row.ID] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if currentSent != nil {
		sentences = append(sentences, currentSent)
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

func WriteSentence(writer io.Writer, sent Sentence) error {
	for i := 1; i <= len(sent); i++ {
		if _, err := io.WriteString(writer, sent[i].String()+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(writer, "\n")
	return err
}

func Write(writer io.Writer, sents []Sentence) error {
	for _, sent := range sents {
		if err := WriteSentence(writer, sent); err != nil {
			return err
		}
	}
	return nil
}

func WriteFile(filename string, sents []Sentence) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, sents)
}

// Forest2Conll renders a forest; roots get head 0 and the relation ROOT
func Forest2Conll(forest *nlp.Forest) Sentence {
	sent := make(Sentence, forest.NumberOfNodes())
	for _, id := range forest.Nodes() {
		token := forest.Token(id)
		row := Row{
			ID:      id,
			Form:    token.Token,
			CPosTag: token.POS,
			PosTag:  token.POS,
			DepRel:  nlp.ROOT_LABEL,
		}
		if head, exists := forest.Head(id); exists {
			rel, _ := forest.Relation(id)
			row.Head = head
			row.DepRel = string(rel)
		}
		sent[id] = row
	}
	return sent
}

func Forest2ConllCorpus(forests []*nlp.Forest) Sentences {
	sents := make(Sentences, len(forests))
	for i, forest := range forests {
		sents[i] = Forest2Conll(forest)
	}
	return sents
}

// Conll2Forest rebuilds a forest; ids must run from 1 to the number of rows
func Conll2Forest(sent Sentence, id int) (*nlp.Forest, error) {
	forest := nlp.NewForest(id)
	for i := 1; i <= len(sent); i++ {
		row, exists := sent[i]
		if !exists {
			return nil, fmt.Errorf("sentence %d: missing row %d of %d", id, i, len(sent))
		}
		forest.AddNode(nlp.TaggedToken{Token: row.Form, POS: row.PosTag})
	}
	for i := 1; i <= len(sent); i++ {
		row := sent[i]
		if row.Head == 0 {
			continue
		}
		if err := forest.AddEdge(i, row.Head, nlp.DepRel(row.DepRel)); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", id, err)
		}
	}
	return forest, nil
}

func Conll2ForestCorpus(sents Sentences) ([]*nlp.Forest, error) {
	forests := make([]*nlp.Forest, len(sents))
	for i, sent := range sents {
		forest, err := Conll2Forest(sent, i+1)
		if err != nil {
			return nil, err
		}
		forests[i] = forest
	}
	return forests, nil
}
