// Package patternops implements the match operators a compiled clause
// dispatches to: SubstringIndex, RegexWithIndex, and the Within condition
// relation, plus JSONPath/XPath pre-projection that restricts a pattern to
// a structural subset of the file before either of those operators runs.
package patternops

import "github.com/patternforge/patternforge/internal/region"

// Capture is one successful hit: which pattern produced it, and where.
type Capture struct {
	PatternIndex int
	Boundary     region.Boundary
}

// DedupCaptures removes duplicate (PatternIndex, Boundary) tuples,
// preserving first-seen order.
func DedupCaptures(caps []Capture) []Capture {
	if len(caps) < 2 {
		return caps
	}
	seen := make(map[Capture]bool, len(caps))
	out := make([]Capture, 0, len(caps))
	for _, c := range caps {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
