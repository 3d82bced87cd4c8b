package patternops

import (
	"regexp"
	"sync"

	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/region"
	"github.com/patternforge/patternforge/internal/textcontainer"
)

// regexCache memoizes compiled regexes keyed by their joined source text
// plus modifiers. Shared process-wide: compilation is idempotent, so
// concurrent writers racing to compile the same key always produce an
// equivalent *regexp.Regexp, making last-writer-wins safe.
type regexCache struct {
	mu    sync.RWMutex
	byKey map[string]*regexpEntry
}

type regexpEntry struct {
	re  *regexp.Regexp
	err error // sentinel: a cached compile failure, logged once
}

var sharedRegexCache = &regexCache{byKey: make(map[string]*regexpEntry)}

func (c *regexCache) get(key string) (*regexpEntry, bool) {
	c.mu.RLock()
	e, ok := c.byKey[key]
	c.mu.RUnlock()
	return e, ok
}

func (c *regexCache) put(key string, e *regexpEntry) {
	c.mu.Lock()
	c.byKey[key] = e
	c.mu.Unlock()
}

// compileCached compiles src, consulting and populating the shared cache.
// A failed compile is cached too (as a sentinel error) so repeated lookups
// don't re-attempt a known-bad pattern.
func compileCached(key, src string) (*regexp.Regexp, error) {
	if e, ok := sharedRegexCache.get(key); ok {
		return e.re, e.err
	}
	re, err := regexp.Compile(src)
	sharedRegexCache.put(key, &regexpEntry{re: re, err: err})
	return re, err
}

// RegexWithIndex runs the clause's joined regex ("i"/"m" modifiers applied
// as inline flags) against content, scoped to the clause's JSONPath/XPath
// pre-projection if any, and filtered by clause.Scopes. A match whose
// start equals its end (an empty-string match) is skipped: this
// implementation's chosen resolution of the spec's documented ambiguity.
func RegexWithIndex(tc *textcontainer.Container, clause *compiler.Clause) []Capture {
	src := compiler.BuildRegexSource(clause.Data, clause.Arguments)
	re, err := compileCached(src, src)
	if err != nil {
		return nil
	}

	content := tc.Content()
	patternIndex := clause.PatternIndex

	var caps []Capture
	regions, active := projectedRegions(content, clause.JSONPaths, clause.XPaths)

	search := func(haystack string, base int) {
		for _, loc := range re.FindAllStringIndex(haystack, -1) {
			start, end := loc[0], loc[1]
			if start == end {
				continue
			}
			boundary := region.Boundary{Index: base + start, Length: end - start}
			if !tc.ScopeMatch(clause.Scopes, boundary) {
				continue
			}
			caps = append(caps, Capture{PatternIndex: patternIndex, Boundary: boundary})
		}
	}

	if active {
		for _, r := range regions {
			search(tc.GetBoundaryText(r), r.Index)
		}
	} else {
		search(content, 0)
	}

	return DedupCaptures(caps)
}
