package processor

import "sort"

// ResolveOverlaps applies the spec's best-match overlap rule within the
// matches of a single rule: when two boundaries overlap, the longer one
// survives, ties broken by the smaller start index. The result is
// returned ordered by (boundary.index, boundary.length) ascending, the
// spec's within-rule ordering guarantee.
func ResolveOverlaps(records []MatchRecord) []MatchRecord {
	if len(records) < 2 {
		return records
	}

	ranked := make([]MatchRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Boundary.Length != ranked[j].Boundary.Length {
			return ranked[i].Boundary.Length > ranked[j].Boundary.Length
		}
		return ranked[i].Boundary.Index < ranked[j].Boundary.Index
	})

	var kept []MatchRecord
	for _, r := range ranked {
		overlapsKept := false
		for _, k := range kept {
			if r.Boundary.Overlaps(k.Boundary) {
				overlapsKept = true
				break
			}
		}
		if !overlapsKept {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Boundary.Index != kept[j].Boundary.Index {
			return kept[i].Boundary.Index < kept[j].Boundary.Index
		}
		return kept[i].Boundary.Length < kept[j].Boundary.Length
	})
	return kept
}
