package processor

import "github.com/patternforge/patternforge/internal/region"

// FileMetadata is the caller-supplied identity of the file being analyzed.
// The core never touches a filesystem; Path is carried through to
// MatchRecord purely for the caller's benefit.
type FileMetadata struct {
	Name string // base name, matched against a rule's applies_to_file_regex
	Path string // full path, reported on MatchRecord, never inspected
}

// MatchRecord is one reported finding.
type MatchRecord struct {
	FilePath string `json:"file_path"`
	Language string `json:"language"`

	Boundary region.Boundary `json:"boundary"`
	Start    region.Location `json:"start"`
	End      region.Location `json:"end"`

	RuleID      string   `json:"rule_id"`
	RuleName    string   `json:"rule_name"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Tags        []string `json:"tags"`

	Pattern     string `json:"pattern"`
	PatternType string `json:"pattern_type"`
	Confidence  string `json:"confidence"`

	Sample  string `json:"sample"`
	Excerpt string `json:"excerpt,omitempty"`

	// EnclosingSymbol is the innermost function or type containing the
	// match's start line, populated when a SymbolLookup is supplied to
	// AnalyzeFile. Empty when symbol enrichment is disabled or no
	// enclosing symbol is found.
	EnclosingSymbol string `json:"enclosing_symbol,omitempty"`
}

// Status reports how a file's analysis ended.
type Status string

const (
	StatusOK       Status = "ok"
	StatusTimedOut Status = "timed_out"
	StatusCanceled Status = "canceled"
)

// FileResult is AnalyzeFile's return value: a status plus whatever matches
// were gathered before that status was reached. A TimedOut result always
// carries zero matches (the spec's "discard on timeout" rule); a Canceled
// result keeps whatever had already been gathered.
type FileResult struct {
	Status  Status        `json:"status"`
	Matches []MatchRecord `json:"matches"`
}
