package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"treedep/nlp/format/bracket"
	"treedep/nlp/format/conll"
	"treedep/nlp/parser/dependency"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/peterh/liner"
)

const (
	HISTORY_FILE = ".treedep_history"
	PROMPT       = "tree> "
	PROMPT_CONT  = "....> "
)

var replConverter string

const replHelp = `Enter a bracketed tree, e.g. (S (NP-SB (ART-NK der) (NN-NK Hund)) (VVFIN-HD bellt))
Commands:
  :conv <task-headfinder>  switch converter
  :heads                   toggle printing the tree with head marks
  :disc                    toggle index=word leaves for discontinuous trees
  :help                    show this help
  :quit                    exit`

// replSession holds the state of an interactive session; output goes to out
type replSession struct {
	out    io.Writer
	format string
	conv   *dependency.Converter
	heads  bool
	disc   bool
	nextID int
}

func newReplSession(out io.Writer, format string) (*replSession, error) {
	conv, err := dependency.NewConverterFromFormat(format)
	if err != nil {
		return nil, err
	}
	return &replSession{out: out, format: format, conv: conv, nextID: 1}, nil
}

// Handle runs one complete input and reports whether the session should end
func (s *replSession) Handle(line string) (exit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ":") {
		return s.command(strings.Fields(line))
	}
	s.convert(line)
	return false
}

func (s *replSession) command(fields []string) (exit bool) {
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(s.out, replHelp)
	case ":conv":
		if len(fields) != 2 {
			fmt.Fprintf(s.out, "converter: %s\n", s.format)
			return false
		}
		conv, err := dependency.NewConverterFromFormat(fields[1])
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
			return false
		}
		s.format, s.conv = fields[1], conv
		fmt.Fprintf(s.out, "converter: %s\n", s.format)
	case ":heads":
		s.heads = !s.heads
		fmt.Fprintf(s.out, "heads: %v\n", s.heads)
	case ":disc":
		s.disc = !s.disc
		fmt.Fprintf(s.out, "discontinuous: %v\n", s.disc)
	default:
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", fields[0])
	}
	return false
}

func (s *replSession) convert(src string) {
	scanner := bracket.NewScanner(strings.NewReader(src), s.disc)
	scanner.FirstID = s.nextID
	for scanner.Scan() {
		tree := scanner.Tree()
		s.nextID++
		forest, marks, err := s.conv.ConvertMarked(tree)
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
			continue
		}
		if s.heads {
			fmt.Fprintln(s.out, tree.Bracketed(marks))
		}
		if err := conll.WriteSentence(s.out, conll.Forest2Conll(forest)); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(s.out, "error:", err)
	}
}

// bracketDepth is the number of brackets left open in src
func bracketDepth(src string) int {
	var depth int
	for _, r := range src {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}

// readTree reads lines until the brackets balance; ok is false on EOF
func readTree(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = PROMPT_CONT
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// ctrl-c drops the pending input
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || bracketDepth(src) <= 0 {
			return src, true
		}
	}
}

func Repl(cmd *commander.Command, args []string) error {
	session, err := newReplSession(os.Stdout, replConverter)
	if err != nil {
		return err
	}
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, HISTORY_FILE)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Println("treedep: type :help for commands")
	for {
		src, ok := readTree(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(src)
		if session.Handle(src) {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

func ReplCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Repl,
		UsageLine: "repl [options]",
		Short:     "converts bracketed trees interactively",
		Long: `
reads bracketed trees from the terminal and prints their CoNLL conversion

	$ ./treedep repl -f <task-headfinder>

`,
		Flag: *flag.NewFlagSet("repl", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&replConverter, "f", DEFAULT_CONVERTER, "Converter as task-headfinder")
	return cmd
}
