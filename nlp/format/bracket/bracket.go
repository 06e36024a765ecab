// Package bracket reads Penn Treebank style bracketed trees. A tagless outer
// bracket becomes the VROOT node. In discontinuous mode leaves are written
// index=word with 0-based surface indices, as in the discontinuous PTB.
package bracket

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	nlp "treedep/nlp/types"
)

// TAG-EDGE with optional coindexation suffixes, which stay on the tag:
// NP-SBJ-1 is tag NP-1 and edge SBJ
var edgeSplit = regexp.MustCompile(`^([^\-]+)-(\D.*?)((?:=\d+)?(?:-\d+)?)$`)

func SplitLabel(label string) (tag, edge string) {
	if m := edgeSplit.FindStringSubmatch(label); m != nil {
		return m[1] + m[3], m[2]
	}
	return label, nlp.DEFAULT_EDGE
}

type SyntaxError struct {
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bracket line %d: %v", e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

var ErrUnbalanced = errors.New("unbalanced brackets")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokAtom
)

type token struct {
	kind tokenKind
	text string
}

type Scanner struct {
	// Disc expects index=word leaves
	Disc bool
	// FirstID is the id of the first tree; ids count up from it
	FirstID int

	reader *bufio.Reader
	line   int
	count  int
	tree   *nlp.Tree
	err    error
}

var _ nlp.TreeScanner = &Scanner{}

func NewScanner(reader io.Reader, disc bool) *Scanner {
	return &Scanner{Disc: disc, FirstID: 1, reader: bufio.NewReader(reader), line: 1}
}

func (s *Scanner) Tree() *nlp.Tree {
	return s.tree
}

func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) lex() (token, error) {
	var r rune
	var err error
	for {
		r, _, err = s.reader.ReadRune()
		if err == io.EOF {
			return token{kind: tokEOF}, nil
		}
		if err != nil {
			return token{}, err
		}
		if r == '\n' {
			s.line++
		}
		if !unicode.IsSpace(r) {
			break
		}
	}
	switch r {
	case '(':
		return token{kind: tokOpen}, nil
	case ')':
		return token{kind: tokClose}, nil
	}
	var b strings.Builder
	b.WriteRune(r)
	for {
		r, _, err = s.reader.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(r) || r == '(' || r == ')' {
			s.reader.UnreadRune()
			break
		}
		b.WriteRune(r)
	}
	return token{tokAtom, b.String()}, nil
}

func (s *Scanner) fail(err error) bool {
	s.err = &SyntaxError{s.line, err}
	s.tree = nil
	return false
}

func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	tok, err := s.lex()
	if err != nil {
		s.err = err
		return false
	}
	switch tok.kind {
	case tokEOF:
		s.tree = nil
		return false
	case tokOpen:
	default:
		return s.fail(fmt.Errorf("expected ( at start of tree, got %q", tok.text))
	}
	b := &builder{tree: nlp.NewTree(s.FirstID + s.count), disc: s.Disc}
	s.count++
	root, err := s.parseNode(b, true)
	if err != nil {
		return s.fail(fmt.Errorf("tree %d: %w", b.tree.ID, err))
	}
	b.tree.Root = root
	if err := b.tree.Validate(); err != nil {
		return s.fail(err)
	}
	s.tree = b.tree
	return true
}

type builder struct {
	tree     *nlp.Tree
	disc     bool
	position int
}

func (b *builder) terminal(label, word string) (int, error) {
	tag, edge := SplitLabel(label)
	node := nlp.Node{Tag: tag, Edge: edge, Word: word}
	if b.disc {
		index, rest, found := strings.Cut(word, "=")
		i, err := strconv.Atoi(index)
		if !found || err != nil || i < 0 {
			return 0, fmt.Errorf("leaf %q is not index=word", word)
		}
		node.Word, node.Num = rest, i+1
	} else {
		b.position++
		node.Num = b.position
	}
	return b.tree.AddNode(node), nil
}

// parseNode reads a bracket whose '(' has been consumed
func (s *Scanner) parseNode(b *builder, top bool) (int, error) {
	tok, err := s.lex()
	if err != nil {
		return 0, err
	}
	var label string
	switch tok.kind {
	case tokAtom:
		label = tok.text
		if tok, err = s.lex(); err != nil {
			return 0, err
		}
	case tokOpen:
		if !top {
			return 0, errors.New("constituent without a tag")
		}
	case tokClose:
		return 0, errors.New("empty brackets")
	case tokEOF:
		return 0, ErrUnbalanced
	}

	if tok.kind == tokAtom {
		if label == "" {
			return 0, fmt.Errorf("word %q without a tag", tok.text)
		}
		word := tok.text
		if tok, err = s.lex(); err != nil {
			return 0, err
		}
		if tok.kind != tokClose {
			return 0, fmt.Errorf("expected ) after word %q", word)
		}
		return b.terminal(label, word)
	}

	var n int
	if label == "" {
		n = b.tree.AddNode(nlp.Node{Tag: nlp.TOP_LABEL, Edge: nlp.DEFAULT_EDGE})
	} else {
		tag, edge := SplitLabel(label)
		n = b.tree.AddNode(nlp.Node{Tag: tag, Edge: edge})
	}
	for tok.kind == tokOpen {
		child, err := s.parseNode(b, false)
		if err != nil {
			return 0, err
		}
		b.tree.AppendChild(n, child)
		if tok, err = s.lex(); err != nil {
			return 0, err
		}
	}
	switch tok.kind {
	case tokClose:
	case tokEOF:
		return 0, ErrUnbalanced
	default:
		return 0, fmt.Errorf("unexpected %q after constituents of %s", tok.text, label)
	}
	if len(b.tree.Nodes[n].Children) == 0 {
		return 0, fmt.Errorf("constituent %s without children", label)
	}
	return n, nil
}

func Read(reader io.Reader, disc bool) ([]*nlp.Tree, error) {
	var trees []*nlp.Tree
	scanner := NewScanner(reader, disc)
	for scanner.Scan() {
		trees = append(trees, scanner.Tree())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return trees, nil
}

func ReadFile(filename string, disc bool) ([]*nlp.Tree, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, disc)
}
