package patternops

import (
	"strings"

	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/region"
	"github.com/patternforge/patternforge/internal/textcontainer"
)

// isWordByte reports whether b is a word character: [A-Za-z0-9_].
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// SubstringIndex finds every occurrence of each needle in clause.Data
// within content, honoring case-insensitivity ("i" modifier) and word
// boundaries (clause.UseWordBoundaries), scoped to the clause's JSONPath/
// XPath pre-projection if any, and filtered by clause.Scopes.
func SubstringIndex(tc *textcontainer.Container, clause *compiler.Clause) []Capture {
	patternIndex := clause.PatternIndex
	content := tc.Content()
	caseInsensitive := containsArg(clause.Arguments, "i")

	var caps []Capture
	regions, active := projectedRegions(content, clause.JSONPaths, clause.XPaths)

	search := func(haystack string, base int) {
		for _, needle := range clause.Data {
			if needle == "" {
				continue
			}
			for _, b := range findAllSubstring(haystack, needle, caseInsensitive) {
				boundary := region.Boundary{Index: base + b, Length: len(needle)}
				if clause.UseWordBoundaries && !hasWordBoundaries(content, boundary) {
					continue
				}
				if !tc.ScopeMatch(clause.Scopes, boundary) {
					continue
				}
				caps = append(caps, Capture{PatternIndex: patternIndex, Boundary: boundary})
			}
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

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

// findAllSubstring returns the start offsets of every (possibly
// overlapping at the byte level, but non-overlapping by occurrence) match
// of needle in haystack.
func findAllSubstring(haystack, needle string, caseInsensitive bool) []int {
	h, n := haystack, needle
	if caseInsensitive {
		h = strings.ToLower(h)
		n = strings.ToLower(n)
	}
	var offsets []int
	start := 0
	for {
		idx := strings.Index(h[start:], n)
		if idx < 0 {
			break
		}
		abs := start + idx
		offsets = append(offsets, abs)
		start = abs + len(n)
		if start >= len(h) {
			break
		}
	}
	return offsets
}

// hasWordBoundaries reports whether both edges of b are either at a file
// boundary or adjacent to a non-word byte.
func hasWordBoundaries(content string, b region.Boundary) bool {
	if b.Index > 0 && isWordByte(content[b.Index-1]) && isWordByte(content[b.Index]) {
		return false
	}
	end := b.End()
	if end < len(content) && isWordByte(content[end-1]) && isWordByte(content[end]) {
		return false
	}
	return true
}
