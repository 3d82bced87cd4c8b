package processor

import "github.com/patternforge/patternforge/internal/rules"

// Options holds the Rule Processor's runtime configuration (spec §4.6's
// options table).
type Options struct {
	// ConfidenceFilter accepts a pattern's match only when its authored
	// confidence is in this bitmask.
	ConfidenceFilter rules.ConfidenceFilter

	// AllowAllTagsInBuildFiles bypasses tag-witness filtering entirely for
	// files whose language file type is "build" (Dockerfile, Makefile).
	AllowAllTagsInBuildFiles bool

	// UniqueTagsOnly, when a TagFilter is supplied to AnalyzeFile, keeps
	// only the first witness match per tag.
	UniqueTagsOnly bool

	// UniqueTagExceptions are dotted-path tag prefixes whose matches are
	// never suppressed by the tag filter, even under UniqueTagsOnly.
	UniqueTagExceptions rules.UniqueTagExceptions

	// ContextLines is the excerpt window on either side of the match's
	// start line. -1 disables excerpt extraction.
	ContextLines int

	// TreatEverythingAsCode forces every TextContainer built by this
	// Processor to report ScopeMatch as always accepting.
	TreatEverythingAsCode bool

	// FileTimeoutMS aborts a single AnalyzeFile call once this many
	// milliseconds have elapsed, checked between rules. 0 disables it.
	FileTimeoutMS int
}

// DefaultOptions returns the spec's documented defaults: medium/high
// confidence, a 3-line excerpt window, no timeout.
func DefaultOptions() Options {
	return Options{
		ConfidenceFilter: rules.DefaultConfidenceFilter,
		ContextLines:     3,
	}
}
