// Package export reads treebanks in the NEGRA export format (versions 3 and
// 4). Trees may be discontinuous; the sentence root is an implicit VROOT
// node.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	nlp "treedep/nlp/types"
)

const (
	BOS           = "#BOS"
	EOS           = "#EOS"
	COMMENT       = "%%"
	FIRST_NONTERM = 500
	ROOT_NUM      = 0
	MIN_FIELDS    = 5
)

type SyntaxError struct {
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("export line %d: %v", e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// record is a terminal or nonterminal line; num is 0 for terminals
type record struct {
	num    int
	word   string
	lemma  string
	tag    string
	morph  string
	edge   string
	parent int
	line   int
}

type Scanner struct {
	scanner *bufio.Scanner
	line    int
	tree    *nlp.Tree
	err     error
}

var _ nlp.TreeScanner = &Scanner{}

func NewScanner(reader io.Reader) *Scanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{scanner: scanner}
}

func (s *Scanner) Tree() *nlp.Tree {
	return s.tree
}

func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) fail(err error) bool {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		s.err = err
	} else {
		s.err = &SyntaxError{s.line, err}
	}
	s.tree = nil
	return false
}

func (s *Scanner) next() (string, bool) {
	for s.scanner.Scan() {
		s.line++
		line := s.scanner.Text()
		if i := strings.Index(line, COMMENT); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, true
		}
	}
	if err := s.scanner.Err(); err != nil {
		s.err = err
	}
	return "", false
}

// Scan advances to the next sentence
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	var (
		id      int
		inside  bool
		records []record
	)
	for {
		line, ok := s.next()
		if !ok {
			if s.err == nil && inside {
				return s.fail(fmt.Errorf("sentence %d: missing %s", id, EOS))
			}
			s.tree = nil
			return false
		}
		fields := strings.Fields(line)
		switch {
		case fields[0] == BOS:
			if inside {
				return s.fail(fmt.Errorf("sentence %d: %s before %s", id, BOS, EOS))
			}
			if len(fields) < 2 {
				return s.fail(fmt.Errorf("%s without sentence id", BOS))
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return s.fail(fmt.Errorf("bad sentence id %q", fields[1]))
			}
			id, inside, records = n, true, records[:0]
		case fields[0] == EOS:
			if !inside {
				return s.fail(fmt.Errorf("%s outside of a sentence", EOS))
			}
			tree, err := build(id, records)
			if err != nil {
				return s.fail(err)
			}
			s.tree = tree
			return true
		case !inside:
			// #FORMAT, #BOT ... #EOT tables and the like
			continue
		default:
			rec, err := parseRecord(fields, len(records))
			if err != nil {
				return s.fail(fmt.Errorf("sentence %d: %w", id, err))
			}
			rec.line = s.line
			records = append(records, rec)
		}
	}
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// parseRecord reads a terminal or nonterminal line; version 4 has a lemma
// column, recognized by a non-numeric fifth field
func parseRecord(fields []string, terminals int) (record, error) {
	var rec record
	if len(fields) < MIN_FIELDS {
		return rec, fmt.Errorf("expected at least %d fields, got %d", MIN_FIELDS, len(fields))
	}
	col := 1
	if !isNumber(fields[4]) {
		if len(fields) < MIN_FIELDS+1 {
			return rec, fmt.Errorf("expected at least %d fields, got %d", MIN_FIELDS+1, len(fields))
		}
		rec.lemma = fields[1]
		col++
	}
	rec.word = fields[0]
	rec.tag, rec.morph, rec.edge = fields[col], fields[col+1], fields[col+2]
	parent, err := strconv.Atoi(fields[col+3])
	if err != nil {
		return rec, fmt.Errorf("bad parent %q", fields[col+3])
	}
	rec.parent = parent
	if strings.HasPrefix(rec.word, "#") && isNumber(rec.word[1:]) {
		num, _ := strconv.Atoi(rec.word[1:])
		if num < FIRST_NONTERM {
			return rec, fmt.Errorf("nonterminal number %d below %d", num, FIRST_NONTERM)
		}
		rec.num = num
		rec.word = ""
		rec.lemma = ""
	}
	return rec, nil
}

func build(id int, records []record) (*nlp.Tree, error) {
	tree := nlp.NewTree(id)
	tree.Root = tree.AddNode(nlp.Node{Tag: nlp.TOP_LABEL, Edge: nlp.DEFAULT_EDGE})
	nonterms := make(map[int]int)
	indices := make([]int, len(records))
	var position int
	for i, rec := range records {
		node := nlp.Node{Tag: rec.tag, Edge: rec.edge, Morph: rec.morph}
		if rec.num == 0 {
			position++
			node.Word, node.Lemma, node.Num = rec.word, rec.lemma, position
		}
		indices[i] = tree.AddNode(node)
		if rec.num != 0 {
			if _, exists := nonterms[rec.num]; exists {
				return nil, fmt.Errorf("sentence %d: duplicate nonterminal #%d", id, rec.num)
			}
			nonterms[rec.num] = indices[i]
		}
	}
	if position == 0 {
		return nil, fmt.Errorf("sentence %d: no terminals", id)
	}
	for i, rec := range records {
		parent := tree.Root
		if rec.parent != ROOT_NUM {
			var exists bool
			if parent, exists = nonterms[rec.parent]; !exists {
				return nil, &SyntaxError{rec.line, fmt.Errorf("sentence %d: unknown parent #%d", id, rec.parent)}
			}
		}
		if parent == indices[i] {
			return nil, &SyntaxError{rec.line, fmt.Errorf("sentence %d: #%d is its own parent", id, rec.num)}
		}
		tree.AppendChild(parent, indices[i])
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	tree.SortChildren()
	return tree, nil
}

func Read(reader io.Reader) ([]*nlp.Tree, error) {
	var trees []*nlp.Tree
	scanner := NewScanner(reader)
	for scanner.Scan() {
		trees = append(trees, scanner.Tree())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return trees, nil
}

func ReadFile(filename string) ([]*nlp.Tree, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}
