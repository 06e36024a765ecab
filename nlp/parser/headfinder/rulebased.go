package headfinder

// RuleBased picks heads from a rule table. The first rule of the category
// that matches any child wins; without a matching rule the rightmost child is
// the head.
type RuleBased struct {
	Rules   Rules
	Matcher func(tag, pattern string) bool
}

var _ HeadFinder = &RuleBased{}

func NewRuleBased(rules Rules) *RuleBased {
	return &RuleBased{Rules: rules, Matcher: Matches}
}

func (r *RuleBased) FindHead(category string, tags, edges []string) (int, error) {
	if len(tags) == 0 {
		return 0, ErrEmptyChildren
	}
	matcher := r.Matcher
	if matcher == nil {
		matcher = Matches
	}
	rules := r.Rules.For(category)
	for i := range rules {
		if head, found := rules[i].Match(tags, matcher); found {
			return head, nil
		}
	}
	return len(tags) - 1, nil
}
