package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/patternforge/patternforge/internal/rules"
)

// Compile translates one Rule into a ConvertedRule: a flat clause list and
// the boolean expression "(0 OR 1 OR …) AND k AND l …" the clause
// evaluator walks. Validation failures (an uncompilable regex, a
// condition with a malformed sub-pattern) are reported as violations and
// skip just that clause; the rule still compiles with whatever clauses
// remain.
func Compile(r *rules.Rule) (*ConvertedRule, []rules.Violation) {
	var violations []rules.Violation
	var clauses []*Clause
	var orLabels []string
	clauseNo := 0

	for i, p := range r.Patterns {
		c, err := patternClause(p, i, clauseNo)
		if err != nil {
			violations = append(violations, rules.Violation{
				RuleID: r.ID,
				Clause: strconv.Itoa(clauseNo),
				Reason: err.Error(),
			})
			clauseNo++
			continue
		}
		clauses = append(clauses, c)
		orLabels = append(orLabels, c.Label)
		clauseNo++
	}

	if len(orLabels) == 0 {
		// No pattern produced a usable clause (none authored, or every
		// one failed validation): degenerate rule, never matches.
		// Conditions are moot with no base captures to AND against.
		return &ConvertedRule{RuleID: r.ID, Rule: r, Clauses: nil, Expression: ""}, violations
	}

	var expr strings.Builder
	expr.WriteString("(")
	expr.WriteString(strings.Join(orLabels, " OR "))
	expr.WriteString(")")

	for _, cond := range r.Conditions {
		subIdx := -1 // condition sub-clauses are not rule patterns
		sub, err := patternClause(cond.Pattern, subIdx, clauseNo)
		if err != nil {
			violations = append(violations, rules.Violation{
				RuleID: r.ID,
				Clause: strconv.Itoa(clauseNo),
				Reason: err.Error(),
			})
			clauseNo++
			continue
		}

		within := &Clause{
			Kind:    ClauseWithin,
			Label:   strconv.Itoa(clauseNo),
			Capture: true,
			Invert:  cond.NegateFinding,
			Sub:     sub,
		}
		switch cond.SearchIn.Kind {
		case rules.SelectorFindingOnly:
			within.FindingOnly = true
		case rules.SelectorFindingRegion:
			within.Before = cond.SearchIn.Before
			within.After = cond.SearchIn.After
		case rules.SelectorSameLine:
			within.SameLineOnly = true
		case rules.SelectorSameFile:
			within.SameFile = true
		case rules.SelectorOnlyBefore:
			within.OnlyBefore = true
		case rules.SelectorOnlyAfter:
			within.OnlyAfter = true
		}

		clauses = append(clauses, within)
		expr.WriteString(" AND ")
		expr.WriteString(within.Label)
		clauseNo++
	}

	return &ConvertedRule{
		RuleID:     r.ID,
		Rule:       r,
		Clauses:    clauses,
		Expression: expr.String(),
	}, violations
}

// CompileCatalog compiles every rule in rs, collecting violations across
// all rules. A rule that compiles to zero clauses (every pattern invalid)
// still appears in the output as a degenerate, never-matching rule, per
// spec — the catalog remains usable without the invalid rule's patterns.
func CompileCatalog(rs []*rules.Rule) ([]*ConvertedRule, []rules.Violation) {
	out := make([]*ConvertedRule, 0, len(rs))
	var violations []rules.Violation
	for _, r := range rs {
		cr, v := Compile(r)
		out = append(out, cr)
		violations = append(violations, v...)
	}
	return out, violations
}

// patternClause converts a SearchPattern into a Substring or Regex clause.
// patternIndex is the index into the owning Rule.Patterns (-1 for a
// condition's sub-pattern, which has no owning index). label is the
// clause's stringified position in the compiled clause list.
func patternClause(p rules.SearchPattern, patternIndex, label int) (*Clause, error) {
	scopes := p.Scopes

	c := &Clause{
		Label:        strconv.Itoa(label),
		Scopes:       scopes,
		Capture:      true,
		Arguments:    modifierSlice(p),
		JSONPaths:    p.JSONPaths,
		XPaths:       p.XPaths,
		PatternIndex: patternIndex,
	}

	switch p.Type {
	case rules.PatternTypeString:
		c.Kind = ClauseSubstring
		c.UseWordBoundaries = true
		c.Data = []string{p.Pattern}
	case rules.PatternTypeSubstring:
		c.Kind = ClauseSubstring
		c.UseWordBoundaries = false
		c.Data = []string{p.Pattern}
	case rules.PatternTypeRegex:
		c.Kind = ClauseRegex
		c.Data = []string{p.Pattern}
	case rules.PatternTypeRegexWord:
		c.Kind = ClauseRegex
		c.Data = []string{`\b(` + p.Pattern + `)\b`}
	default:
		return nil, fmt.Errorf("unrecognized pattern type %q", p.Type)
	}

	if c.Kind == ClauseRegex {
		src := BuildRegexSource(c.Data, c.Arguments)
		if _, err := regexp.Compile(src); err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", src, err)
		}
	}

	return c, nil
}

func modifierSlice(p rules.SearchPattern) []string {
	var out []string
	if p.HasModifier("i") {
		out = append(out, "i")
	}
	if p.HasModifier("m") {
		out = append(out, "m")
	}
	return out
}

// BuildRegexSource joins clause data with "|" and prefixes Go inline flags
// for the "i"/"m" modifiers, producing the single pattern RE2 compiles.
// Shared between compile-time validation here and patternops.RegexWithIndex
// so both apply modifiers identically.
func BuildRegexSource(data []string, modifiers []string) string {
	joined := strings.Join(data, "|")
	var flags string
	for _, m := range modifiers {
		switch m {
		case "i":
			flags += "i"
		case "m":
			flags += "m"
		}
	}
	if flags == "" {
		return joined
	}
	return "(?" + flags + ")" + joined
}
