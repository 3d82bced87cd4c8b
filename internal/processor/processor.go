// Package processor implements the Rule Processor: the orchestrator that
// selects applicable rules for a file, evaluates each rule's compiled
// clause tree against a TextContainer, and turns surviving captures into
// filtered, de-duplicated MatchRecords.
package processor

import (
	"context"
	"time"

	"github.com/patternforge/patternforge/internal/clauseeval"
	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/langregistry"
	"github.com/patternforge/patternforge/internal/patternops"
	"github.com/patternforge/patternforge/internal/region"
	"github.com/patternforge/patternforge/internal/rules"
	"github.com/patternforge/patternforge/internal/textcontainer"
)

// SymbolLookup resolves the innermost function or type enclosing a line.
// internal/structure implements this; AnalyzeFile accepts nil to disable
// enclosing-symbol enrichment.
type SymbolLookup interface {
	Enclosing(line int) (name string, ok bool)
}

// Processor evaluates a compiled rule catalog against files. It holds no
// per-file state; AnalyzeFile is safe to call concurrently across
// different files from multiple goroutines, each building its own
// TextContainer.
type Processor struct {
	catalog  *rules.Catalog
	compiled map[string]*compiler.ConvertedRule
	opts     Options
}

// New builds a Processor from a rule catalog and its compiled clause
// trees (the outputs of rules.NewCatalog and compiler.CompileCatalog for
// the same rule set).
func New(catalog *rules.Catalog, compiledRules []*compiler.ConvertedRule, opts Options) *Processor {
	byID := make(map[string]*compiler.ConvertedRule, len(compiledRules))
	for _, cr := range compiledRules {
		byID[cr.RuleID] = cr
	}
	return &Processor{catalog: catalog, compiled: byID, opts: opts}
}

// AnalyzeFile runs every rule selected for (lang, meta) against content
// and returns the matches that survive confidence and tag-witness
// filtering, with per-rule overlap resolution applied.
//
// tagFilter may be nil (tags-only de-dup disabled for this call).
// symbols may be nil (no enclosing-symbol enrichment).
//
// ctx is checked for cancellation between rules; FileTimeoutMS in the
// Processor's Options is checked the same way. Cancellation returns
// whatever matches had already been gathered with StatusCanceled; a
// timeout discards them and returns StatusTimedOut with none, per spec.
func (p *Processor) AnalyzeFile(ctx context.Context, content string, meta FileMetadata, lang langregistry.Info, tagFilter *rules.TagFilter, symbols SymbolLookup) (FileResult, error) {
	tc := textcontainer.New(content, lang)
	if p.opts.TreatEverythingAsCode {
		tc.SetTreatEverythingAsCode(true)
	}

	selected := p.catalog.SelectForFile(lang.Name, meta.Name)

	var deadline time.Time
	if p.opts.FileTimeoutMS > 0 {
		deadline = time.Now().Add(time.Duration(p.opts.FileTimeoutMS) * time.Millisecond)
	}

	bypassTagsByFileType := lang.FileType == langregistry.FileTypeBuild && p.opts.AllowAllTagsInBuildFiles

	var matches []MatchRecord
	for _, rule := range selected {
		if err := ctx.Err(); err != nil {
			return FileResult{Status: StatusCanceled, Matches: matches}, nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return FileResult{Status: StatusTimedOut, Matches: nil}, nil
		}

		cr, ok := p.compiled[rule.ID]
		if !ok || len(cr.Clauses) == 0 {
			continue
		}

		result, err := clauseeval.Evaluate(tc, cr.Clauses, cr.Expression)
		if err != nil || !result.Matched {
			continue
		}

		ruleRecords := p.recordsForRule(tc, meta, lang, rule, result.Captures, tagFilter, bypassTagsByFileType, symbols)
		matches = append(matches, ResolveOverlaps(ruleRecords)...)
	}

	return FileResult{Status: StatusOK, Matches: matches}, nil
}

func (p *Processor) recordsForRule(
	tc *textcontainer.Container,
	meta FileMetadata,
	lang langregistry.Info,
	rule *rules.Rule,
	captures []patternops.Capture,
	tagFilter *rules.TagFilter,
	bypassTagsByFileType bool,
	symbols SymbolLookup,
) []MatchRecord {
	exempt := ruleHasExemptTag(rule.Tags, p.opts.UniqueTagExceptions)

	var out []MatchRecord
	for _, cap := range captures {
		// Condition sub-clause captures carry PatternIndex -1: they gate
		// whether the rule matched but never become their own finding.
		if cap.PatternIndex < 0 || cap.PatternIndex >= len(rule.Patterns) {
			continue
		}

		pattern := rule.Patterns[cap.PatternIndex]
		if !p.opts.ConfidenceFilter.Allows(pattern.Confidence) {
			continue
		}

		if tagFilter != nil && !bypassTagsByFileType && !exempt && tagFilter.AllSeen(rule.Tags) {
			continue
		}

		start := tc.GetLocation(cap.Boundary.Index)
		end := tc.GetLocation(cap.Boundary.End())

		rec := MatchRecord{
			FilePath:    meta.Path,
			Language:    lang.Name,
			Boundary:    cap.Boundary,
			Start:       start,
			End:         end,
			RuleID:      rule.ID,
			RuleName:    rule.Name,
			Description: rule.Description,
			Severity:    string(rule.Severity),
			Tags:        rule.Tags,
			Pattern:     pattern.Pattern,
			PatternType: string(pattern.Type),
			Confidence:  confidenceName(pattern.Confidence),
			Sample:      sampleText(tc, cap.Boundary),
			Excerpt:     ExtractExcerpt(tc, start.Line, p.opts.ContextLines),
		}
		if symbols != nil {
			if name, ok := symbols.Enclosing(start.Line); ok {
				rec.EnclosingSymbol = name
			}
		}

		out = append(out, rec)

		if tagFilter != nil {
			tagFilter.Record(rule.Tags)
		}
	}
	return out
}

func ruleHasExemptTag(tags []string, exceptions rules.UniqueTagExceptions) bool {
	if len(exceptions) == 0 {
		return false
	}
	for _, t := range tags {
		if exceptions.Exempt(t) {
			return true
		}
	}
	return false
}

func sampleText(tc *textcontainer.Container, b region.Boundary) string {
	length := b.Length
	if length > 200 {
		length = 200
	}
	return tc.GetBoundaryText(region.Boundary{Index: b.Index, Length: length})
}

func confidenceName(c rules.Confidence) string {
	switch c {
	case rules.ConfidenceLow:
		return "low"
	case rules.ConfidenceHigh:
		return "high"
	default:
		return "medium"
	}
}
