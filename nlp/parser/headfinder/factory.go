package headfinder

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"treedep/util"
)

const (
	HF_NEGRA = "negra"
	HF_PTB   = "ptb"
	HF_DPTB  = "dptb"
	HF_LABEL = "label"
)

var ErrMissingHeadFinder = errors.New("missing head finder")

// Types lists the head finder identifiers accepted by New
func Types() []string {
	types := []string{HF_NEGRA, HF_PTB, HF_DPTB, HF_LABEL}
	sort.Strings(types)
	return types
}

// Options are the parameters of a head finder spec
type Options struct {
	Type      string
	RulesFile string
	CacheSize int
}

// ParseSpec parses type[:key=value,...]. Known keys are rules (a head rule
// file replacing the built-in table) and cache (LRU size, 0 disables).
func ParseSpec(spec string) (*Options, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrMissingHeadFinder
	}
	opts := &Options{CacheSize: DEFAULT_CACHE_SIZE}
	typ, params, _ := strings.Cut(spec, ":")
	opts.Type = strings.ToLower(typ)
	if params == "" {
		return opts, nil
	}
	for _, param := range strings.Split(params, ",") {
		key, value, found := strings.Cut(param, "=")
		if !found {
			return nil, fmt.Errorf("head finder parameter %q is not key=value", param)
		}
		switch key {
		case "rules":
			opts.RulesFile = value
		case "cache":
			size, err := strconv.Atoi(value)
			if err != nil || size < 0 {
				return nil, fmt.Errorf("bad head finder cache size %q", value)
			}
			opts.CacheSize = size
		default:
			return nil, fmt.Errorf("unknown head finder parameter %q", key)
		}
	}
	return opts, nil
}

// New builds the head finder described by spec
func New(spec string) (HeadFinder, error) {
	opts, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	return opts.Build()
}

func (o *Options) rules(builtin string) (Rules, error) {
	if o.RulesFile != "" {
		return ReadRulesFile(o.RulesFile)
	}
	return BuiltinRules(builtin)
}

func (o *Options) Build() (HeadFinder, error) {
	var finder HeadFinder
	switch o.Type {
	case HF_NEGRA:
		rules, err := o.rules(HF_NEGRA)
		if err != nil {
			return nil, err
		}
		finder = NewNegra(rules)
	case HF_PTB, HF_DPTB:
		rules, err := o.rules(HF_PTB)
		if err != nil {
			return nil, err
		}
		finder = NewPTB(rules, o.Type == HF_DPTB)
	case HF_LABEL:
		if o.RulesFile != "" {
			return nil, fmt.Errorf("head finder %s takes no rules", HF_LABEL)
		}
		finder = Label{}
	default:
		return nil, &util.UnknownTaskError{Kind: "head finder", Task: o.Type}
	}
	if o.CacheSize > 0 {
		return NewCached(finder, o.CacheSize)
	}
	return finder, nil
}

// RulesOf returns the rule table behind finder, if any
func RulesOf(finder HeadFinder) (Rules, bool) {
	switch f := finder.(type) {
	case *Cached:
		return RulesOf(f.Finder)
	case *Negra:
		return f.Rules, true
	case *PTB:
		return f.Rules, true
	case *RuleBased:
		return f.Rules, true
	}
	return nil, false
}
