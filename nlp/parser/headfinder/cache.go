package headfinder

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DEFAULT_CACHE_SIZE = 1024

// Cached memoizes the heads of productions. Treebanks repeat a small number
// of productions very often, so most lookups skip the rule scan. Cached is
// safe for concurrent use if the wrapped finder is.
type Cached struct {
	Finder HeadFinder
	cache  *lru.Cache[string, int]
}

var _ HeadFinder = &Cached{}

func NewCached(finder HeadFinder, size int) (*Cached, error) {
	cache, err := lru.New[string, int](size)
	if err != nil {
		return nil, err
	}
	return &Cached{finder, cache}, nil
}

func productionKey(category string, tags, edges []string) string {
	var b strings.Builder
	b.WriteString(category)
	b.WriteByte(0)
	b.WriteString(strings.Join(tags, "\x01"))
	b.WriteByte(0)
	b.WriteString(strings.Join(edges, "\x01"))
	return b.String()
}

func (c *Cached) FindHead(category string, tags, edges []string) (int, error) {
	key := productionKey(category, tags, edges)
	if head, found := c.cache.Get(key); found {
		return head, nil
	}
	head, err := c.Finder.FindHead(category, tags, edges)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, head)
	return head, nil
}

func (c *Cached) Len() int {
	return c.cache.Len()
}
