package rules

import (
	"strconv"
	"strings"
)

// parseSelector parses the search_in wire value. The default, used for an
// empty string, is finding-only. Any other unrecognized value returns
// ok=false so the caller can drop the condition with a warning.
func parseSelector(raw string) (Selector, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Selector{Kind: SelectorFindingOnly}, true
	}

	switch {
	case s == "finding-only":
		return Selector{Kind: SelectorFindingOnly}, true
	case s == "same-line":
		return Selector{Kind: SelectorSameLine}, true
	case s == "same-file":
		return Selector{Kind: SelectorSameFile}, true
	case s == "only-before":
		return Selector{Kind: SelectorOnlyBefore}, true
	case s == "only-after":
		return Selector{Kind: SelectorOnlyAfter}, true
	case strings.HasPrefix(s, "finding-region(") && strings.HasSuffix(s, ")"):
		body := s[len("finding-region(") : len(s)-1]
		parts := strings.Split(body, ",")
		if len(parts) != 2 {
			return Selector{}, false
		}
		before, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		after, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return Selector{}, false
		}
		return Selector{Kind: SelectorFindingRegion, Before: before, After: after}, true
	default:
		return Selector{}, false
	}
}
