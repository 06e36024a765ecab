package headfinder

import (
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"treedep/util/conf"
)

//go:embed rules/*.headrules
var builtinRules embed.FS

type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

var directionNames = map[string]Direction{
	"left-to-right": LeftToRight,
	"right-to-left": RightToLeft,
}

func (d Direction) String() string {
	if d == LeftToRight {
		return "left-to-right"
	}
	return "right-to-left"
}

// MIN_RULE_LENGTH is the shortest line that can hold a rule; shorter lines
// are ignored
const MIN_RULE_LENGTH = 8

type Rule struct {
	Direction Direction
	Labels    []string
}

// Match returns the first child, scanning in the rule's direction, whose tag
// matches one of the rule's labels. A rule without labels matches the first
// child it sees.
func (r *Rule) Match(tags []string, matches func(tag, pattern string) bool) (int, bool) {
	for i := range tags {
		child := i
		if r.Direction == RightToLeft {
			child = len(tags) - 1 - i
		}
		if len(r.Labels) == 0 {
			return child, true
		}
		for _, label := range r.Labels {
			if matches(tags[child], label) {
				return child, true
			}
		}
	}
	return 0, false
}

func (r *Rule) String() string {
	return r.Direction.String() + " " + strings.Join(r.Labels, " ")
}

// Rules maps upper-cased categories to their rules in priority order
type Rules map[string][]Rule

func (rs Rules) For(category string) []Rule {
	return rs[strings.ToUpper(pureTag(category))]
}

func (rs Rules) Categories() []string {
	cats := make([]string, 0, len(rs))
	for cat := range rs {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

func (rs Rules) Write(writer io.Writer) error {
	for _, cat := range rs.Categories() {
		for _, rule := range rs[cat] {
			if _, err := fmt.Fprintf(writer, "%s %s\n", cat, rule.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadRules reads a head rule table, one rule per line:
//
//	CATEGORY left-to-right|right-to-left LABEL...
//
// Lines with an unknown direction are skipped.
func ReadRules(reader io.Reader) (Rules, error) {
	c, err := conf.Read(reader)
	if err != nil {
		return nil, err
	}
	rules := make(Rules)
	for _, line := range c.Values {
		if len(line) < MIN_RULE_LENGTH {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		dir, known := directionNames[fields[1]]
		if !known {
			continue
		}
		labels := make([]string, len(fields)-2)
		for i, label := range fields[2:] {
			labels[i] = strings.ToUpper(label)
		}
		cat := strings.ToUpper(fields[0])
		rules[cat] = append(rules[cat], Rule{dir, labels})
	}
	return rules, nil
}

func ReadRulesFile(filename string) (Rules, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadRules(file)
}

// BuiltinRules returns one of the embedded tables, "negra" or "ptb"
func BuiltinRules(name string) (Rules, error) {
	file, err := builtinRules.Open("rules/" + name + ".headrules")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadRules(file)
}
