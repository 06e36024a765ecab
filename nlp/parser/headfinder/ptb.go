package headfinder

// PTB finds heads of Penn Treebank constituents. NPs bypass the rule table;
// any head preceded by a coordinator is moved to the conjunct before it.
type PTB struct {
	*RuleBased
	// WH lets WHNP match NP and so on, as needed by the discontinuous PTB
	WH bool
}

var _ HeadFinder = &PTB{}

func NewPTB(rules Rules, wh bool) *PTB {
	p := &PTB{RuleBased: NewRuleBased(rules), WH: wh}
	p.RuleBased.Matcher = p.matches
	return p
}

func (p *PTB) matches(tag, pattern string) bool {
	if p.WH {
		return WHMatches(tag, pattern)
	}
	return Matches(tag, pattern)
}

var (
	npNominal   = []string{"NN", "NNP", "NNPS", "NNS", "NX", "POS", "JR"}
	npEmbedded  = []string{"NP"}
	npModifier  = []string{"$", "ADJP", "PRN"}
	npCardinal  = []string{"CD"}
	npAdjective = []string{"JJ", "JJS", "RB", "QP"}
)

func (p *PTB) FindHead(category string, tags, edges []string) (int, error) {
	var (
		head int
		err  error
	)
	if len(tags) == 0 {
		return 0, ErrEmptyChildren
	}
	if Matches(category, "NP") {
		head = p.npHead(tags)
	} else {
		head, err = p.RuleBased.FindHead(category, tags, edges)
		if err != nil {
			return 0, err
		}
	}
	if head >= 2 && isCoordinator(tags[head-1]) {
		for i := head - 2; i >= 0; i-- {
			if !isPunctuation(tags[i]) {
				return i, nil
			}
		}
	}
	return head, nil
}

func isCoordinator(tag string) bool {
	return tag == "CC" || tag == "CONJP"
}

func (p *PTB) npHead(tags []string) int {
	last := len(tags) - 1
	if tags[last] == "POS" {
		return last
	}
	if i, found := p.scan(tags, npNominal, RightToLeft); found {
		return i
	}
	if i, found := p.scan(tags, npEmbedded, LeftToRight); found {
		return i
	}
	if i, found := p.scan(tags, npModifier, RightToLeft); found {
		return i
	}
	if i, found := p.scan(tags, npCardinal, RightToLeft); found {
		return i
	}
	if i, found := p.scan(tags, npAdjective, RightToLeft); found {
		return i
	}
	return last
}

func (p *PTB) scan(tags, patterns []string, dir Direction) (int, bool) {
	rule := Rule{dir, patterns}
	return rule.Match(tags, p.matches)
}
