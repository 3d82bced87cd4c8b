// Package compiler translates declarative rules.Rule documents into an
// executable clause tree: a flat list of Clause values plus a boolean
// expression string referencing them by label.
package compiler

import (
	"github.com/patternforge/patternforge/internal/region"
	"github.com/patternforge/patternforge/internal/rules"
)

// ClauseKind selects which operator a Clause dispatches to.
type ClauseKind int

const (
	ClauseSubstring ClauseKind = iota
	ClauseRegex
	ClauseWithin
)

// Clause is the compiled, flat representation of one pattern or condition.
// Clauses never hold a pointer back into the source Rule; they carry a
// PatternIndex so the processor can resolve the owning SearchPattern (and
// its confidence) by index, keeping compiled rules allocation-free to walk.
type Clause struct {
	Kind         ClauseKind
	Label        string
	Scopes       region.ScopeSet
	Capture      bool
	Invert       bool
	Arguments    []string // modifiers: "i", "m"
	Data         []string // needle(s) for substring, or regex source(s)
	JSONPaths    []string
	XPaths       []string
	PatternIndex int // index into the owning Rule.Patterns

	UseWordBoundaries bool // SubstringIndex only

	// Within-clause fields.
	Sub          *Clause
	FindingOnly  bool
	Before       int
	After        int
	SameLineOnly bool
	SameFile     bool
	OnlyBefore   bool
	OnlyAfter    bool
}

// ConvertedRule is the compiler's output for one Rule: a flat clause list
// plus the boolean expression clauseeval evaluates.
type ConvertedRule struct {
	RuleID     string
	Rule       *rules.Rule
	Clauses    []*Clause
	Expression string
}
