package patternops

import (
	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/textcontainer"
)

// Within evaluates a compiled WithinClause: it succeeds iff at least one
// pair (s in sub, p in parent) satisfies the clause's proximity relation.
// The captures it returns are the subset of sub that satisfied the
// relation with some parent capture (same-file returns all of sub, since
// the relation is trivially positional). If clause.Invert, the boolean
// outcome is negated and the capture set collapses to empty, matching the
// "invert" semantics for condition clauses.
func Within(tc *textcontainer.Container, clause *compiler.Clause, sub, parent []Capture) (bool, []Capture) {
	var satisfied bool
	var matched []Capture

	if clause.SameFile {
		satisfied = len(sub) > 0
		if satisfied {
			matched = sub
		}
	} else {
		for _, s := range sub {
			for _, p := range parent {
				if relationHolds(tc, clause, s, p) {
					satisfied = true
					matched = append(matched, s)
					break
				}
			}
		}
	}

	if clause.Invert {
		return !satisfied, nil
	}
	return satisfied, DedupCaptures(matched)
}

func relationHolds(tc *textcontainer.Container, clause *compiler.Clause, s, p Capture) bool {
	switch {
	case clause.FindingOnly:
		return s.Boundary.Overlaps(p.Boundary) ||
			s.Boundary.Contains(p.Boundary) ||
			p.Boundary.Contains(s.Boundary)
	case clause.SameLineOnly:
		return tc.GetLocation(s.Boundary.Index).Line == tc.GetLocation(p.Boundary.Index).Line
	case clause.OnlyBefore:
		return s.Boundary.Index < p.Boundary.Index
	case clause.OnlyAfter:
		return s.Boundary.Index > p.Boundary.Index
	default:
		// finding-region(before, after): s's line falls within
		// [p.startLine-before, p.startLine+after] inclusive.
		pLine := tc.GetLocation(p.Boundary.Index).Line
		sLine := tc.GetLocation(s.Boundary.Index).Line
		return sLine >= pLine-clause.Before && sLine <= pLine+clause.After
	}
}
