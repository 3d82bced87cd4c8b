// Package textcontainer builds a language-aware indexed view of a source
// file: a line index for offset-to-location translation, and a memoized
// commented-state map for answering "is this offset inside a comment?".
package textcontainer

import (
	"sort"
	"strings"
	"sync"

	"github.com/patternforge/patternforge/internal/langregistry"
	"github.com/patternforge/patternforge/internal/region"
)

// Container is the indexed view of a single file's content.
type Container struct {
	content string
	lang    langregistry.Info

	// lineEnds/lineStarts are 1-indexed; slot 0 is a sentinel.
	lineEnds   []int
	lineStarts []int

	mu        sync.Mutex
	commented map[int]bool

	treatAsCode bool
}

// New builds a Container, scanning content once to populate the line index.
func New(content string, lang langregistry.Info) *Container {
	c := &Container{
		content:    content,
		lang:       lang,
		lineEnds:   []int{0},
		lineStarts: []int{0, 0},
		commented:  make(map[int]bool),
	}
	c.buildLineIndex()
	return c
}

// SetTreatEverythingAsCode forces ScopeMatch to always accept, bypassing
// comment-scope filtering entirely (spec §4.6's treat_everything_as_code
// processor option).
func (c *Container) SetTreatEverythingAsCode(v bool) {
	c.treatAsCode = v
}

// Content returns the underlying file text.
func (c *Container) Content() string {
	return c.content
}

// Language returns the language info the container was constructed with.
func (c *Container) Language() langregistry.Info {
	return c.lang
}

func (c *Container) buildLineIndex() {
	n := len(c.content)
	if n == 0 {
		c.lineEnds = append(c.lineEnds, 0)
		return
	}

	for p := 0; p < n; p++ {
		if c.content[p] == '\n' {
			c.lineEnds = append(c.lineEnds, p)
			if p+1 < n {
				c.lineStarts = append(c.lineStarts, p+1)
			}
		}
	}
	if c.content[n-1] != '\n' {
		c.lineEnds = append(c.lineEnds, n-1)
	}
}

// lineIndexFor returns the smallest i with lineEnds[i] >= index.
func (c *Container) lineIndexFor(index int) int {
	i := sort.Search(len(c.lineEnds), func(i int) bool {
		return i > 0 && c.lineEnds[i] >= index
	})
	if i == 0 {
		i = 1
	}
	if i >= len(c.lineEnds) {
		i = len(c.lineEnds) - 1
	}
	return i
}

// GetLineBoundary returns the Boundary of the line containing index.
func (c *Container) GetLineBoundary(index int) region.Boundary {
	i := c.lineIndexFor(index)
	start := c.lineStarts[i]
	end := c.lineEnds[i]
	return region.Boundary{Index: start, Length: end - start + 1}
}

// GetLineContent returns the text of the given 1-indexed line, clamped to
// the last line if line is out of range.
func (c *Container) GetLineContent(line int) string {
	if line < 1 {
		line = 1
	}
	if line >= len(c.lineStarts) {
		line = len(c.lineStarts) - 1
	}
	start := c.lineStarts[line]
	end := c.lineEnds[line]
	return c.GetBoundaryText(region.Boundary{Index: start, Length: end - start + 1})
}

// GetLocation returns the 1-indexed line/column for a byte offset.
func (c *Container) GetLocation(index int) region.Location {
	i := c.lineIndexFor(index)
	return region.Location{
		Line:   i,
		Column: index - c.lineStarts[i] + 1,
	}
}

// GetBoundaryText returns the substring covered by b, clamped to content length.
func (c *Container) GetBoundaryText(b region.Boundary) string {
	start := b.Index
	end := b.End()
	if start < 0 {
		start = 0
	}
	if end > len(c.content) {
		end = len(c.content)
	}
	if start > end {
		return ""
	}
	return c.content[start:end]
}

// LineCount returns the number of indexed lines.
func (c *Container) LineCount() int {
	return len(c.lineStarts) - 1
}

// IsCommented reports whether the byte offset index falls inside a comment,
// per the commented-state algorithm in the package doc. Results are
// memoized in a thread-safe map; concurrent writers always compute the same
// value for a given offset, so last-writer-wins is safe.
func (c *Container) IsCommented(index int) bool {
	clamped := index
	if clamped < 0 {
		clamped = 0
	}
	if maxIdx := len(c.content) - 1; maxIdx < 0 {
		clamped = 0
	} else if clamped > maxIdx {
		clamped = maxIdx
	}

	if v, ok := c.load(clamped); ok {
		if clamped != index {
			c.store(index, v)
		}
		return v
	}

	c.computeCommentedState(clamped)

	v, _ := c.load(clamped)
	if clamped != index {
		c.store(index, v)
	}
	return v
}

func (c *Container) computeCommentedState(q int) {
	lang := c.lang

	foundBlock := false
	if lang.HasMultiLineComment() {
		if p := greatestPrefixMatch(c.content, q, lang.CommentPrefix); p >= 0 {
			if _, ok := c.load(p); !ok {
				s := leastSuffixMatch(c.content, p, lang.CommentSuffix, len(c.content)-1)
				c.markRange(p, s, true)
			}
			foundBlock = true
		}
	}
	// A language with both comment forms (go, javascript, java, c, …) still
	// needs the inline check: q may sit after the nearest block comment's
	// close, where only a "//"-style line comment can cover it.
	if !foundBlock && lang.InlineComment != "" {
		if p := greatestPrefixMatch(c.content, q, lang.InlineComment); p >= 0 {
			if _, ok := c.load(p); !ok {
				n := nextNewline(c.content, p, len(c.content)-1)
				c.markRange(p, n, true)
			}
		}
	}

	for i := q; i >= 0; i-- {
		if _, ok := c.load(i); ok {
			break
		}
		c.store(i, false)
	}
}

func (c *Container) markRange(from, to int, val bool) {
	for i := from; i <= to; i++ {
		c.store(i, val)
	}
}

func (c *Container) load(offset int) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.commented[offset]
	return v, ok
}

func (c *Container) store(offset int, val bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commented[offset] = val
}

// greatestPrefixMatch finds the greatest p <= q such that content[p:]
// starts with needle, or -1 if none exists.
func greatestPrefixMatch(content string, q int, needle string) int {
	if needle == "" {
		return -1
	}
	limit := q
	if limit >= len(content) {
		limit = len(content) - 1
	}
	for p := limit; p >= 0; p-- {
		if strings.HasPrefix(content[p:], needle) {
			return p
		}
	}
	return -1
}

// leastSuffixMatch finds the least s >= from such that content[s:] starts
// with needle, or fallback if none exists.
func leastSuffixMatch(content string, from int, needle string, fallback int) int {
	if needle == "" {
		return fallback
	}
	for s := from; s < len(content); s++ {
		if strings.HasPrefix(content[s:], needle) {
			return s
		}
	}
	return fallback
}

// nextNewline finds the least n >= from with content[n] == '\n', or
// fallback if none exists.
func nextNewline(content string, from int, fallback int) int {
	if from >= len(content) {
		return fallback
	}
	if idx := strings.IndexByte(content[from:], '\n'); idx >= 0 {
		return from + idx
	}
	return fallback
}

// ScopeMatch reports whether b is acceptable under scopes: All or a
// languge with no comment syntax always accepts; otherwise the offset's
// commented state decides between Code and Comment.
func (c *Container) ScopeMatch(scopes region.ScopeSet, b region.Boundary) bool {
	if c.treatAsCode || scopes.Contains(region.ScopeAll) || !c.lang.HasCommentSyntax() {
		return true
	}
	inComment := c.IsCommented(b.Index)
	if inComment {
		return scopes.Contains(region.ScopeComment)
	}
	return scopes.Contains(region.ScopeCode)
}
